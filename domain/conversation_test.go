package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGroupName_Is_Order_Independent(t *testing.T) {
	req := require.New(t)
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"zoe", "adam"},
		{"user1", "user10"},
		{"Bob", "bob"},
	}

	for _, p := range pairs {
		req.Equal(GroupName(p[0], p[1]), GroupName(p[1], p[0]))
	}
}

func TestGroupName_Ordinal_Order(t *testing.T) {
	req := require.New(t)

	req.Equal("alice-bob", GroupName("alice", "bob"))
	req.Equal("alice-bob", GroupName("bob", "alice"))
	// Upper-case letters sort before lower-case ones in byte order
	req.Equal("Zed-adam", GroupName("adam", "Zed"))
	req.Equal("user1-user10", GroupName("user10", "user1"))
}

func TestGroupName_Distinct_Pairs_Do_Not_Collide(t *testing.T) {
	req := require.New(t)
	users := []string{"alice", "bob", "charlie", "dave"}
	seen := make(map[string][2]string)

	for i, a := range users {
		for _, b := range users[i+1:] {
			group := GroupName(a, b)
			_, exists := seen[group]
			req.False(exists, "group %s already produced", group)
			seen[group] = [2]string{a, b}
		}
	}
	req.Len(seen, 6)
}

func TestNormalizeUsername(t *testing.T) {
	req := require.New(t)
	req.Equal("alice", NormalizeUsername("  Alice "))
	req.Equal("", NormalizeUsername("   "))
}

func TestMessage_MarkRead_Is_One_Way(t *testing.T) {
	req := require.New(t)
	createdAt := time.Now().UTC()
	msg := NewMessage(User{ID: "1", Username: "alice"}, User{ID: "2", Username: "bob"}, "hi", createdAt)

	// Given a fresh message
	req.False(msg.IsRead())
	req.Equal("alice-bob", msg.Group())

	// When it is read
	req.True(msg.MarkRead(createdAt.Add(time.Minute)))
	req.Equal(createdAt.Add(time.Minute), *msg.ReadAt)

	// Then a second read keeps the first timestamp
	req.False(msg.MarkRead(createdAt.Add(time.Hour)))
	req.Equal(createdAt.Add(time.Minute), *msg.ReadAt)
}

func TestMessage_MarkRead_Never_Precedes_Creation(t *testing.T) {
	req := require.New(t)
	createdAt := time.Now().UTC()
	msg := NewMessage(User{Username: "alice"}, User{Username: "bob"}, "hi", createdAt)

	msg.MarkRead(createdAt.Add(-time.Second))

	req.Equal(createdAt, *msg.ReadAt)
}
