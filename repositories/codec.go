package repositories

import (
	"dm-lab/domain"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Records are stored in protobuf wire format, field numbers below are the schema.
//
//	message Message {
//	  string id = 1; string sender_id = 2; string sender_username = 3;
//	  string recipient_id = 4; string recipient_username = 5; string content = 6;
//	  int64 created_at = 7; int64 read_at = 8; // unix nanoseconds, 0 when unread
//	}
//
//	message User {
//	  string id = 1; string username = 2; string known_as = 3;
//	  string password_hash = 4; repeated string roles = 5; int64 created_at = 6;
//	}
// Key namespaces of the primary records. Index keys reference them by id.
const (
	MessagePrefix = "msg:"
	UserPrefix    = "user:"
)

const (
	msgID protowire.Number = iota + 1
	msgSenderID
	msgSenderUsername
	msgRecipientID
	msgRecipientUsername
	msgContent
	msgCreatedAt
	msgReadAt
)

const (
	userID protowire.Number = iota + 1
	userUsername
	userKnownAs
	userPasswordHash
	userRoles
	userCreatedAt
)

func marshalMessage(m domain.Message) []byte {
	var b []byte
	b = appendString(b, msgID, m.ID.String())
	b = appendString(b, msgSenderID, m.SenderID)
	b = appendString(b, msgSenderUsername, m.SenderUsername)
	b = appendString(b, msgRecipientID, m.RecipientID)
	b = appendString(b, msgRecipientUsername, m.RecipientUsername)
	b = appendString(b, msgContent, m.Content)
	b = appendTime(b, msgCreatedAt, m.CreatedAt)
	if m.ReadAt != nil {
		b = appendTime(b, msgReadAt, *m.ReadAt)
	}
	return b
}

func unmarshalMessage(b []byte) (domain.Message, error) {
	var m domain.Message
	var rawID string
	err := consumeFields(b, func(num protowire.Number, str string, varint uint64) error {
		switch num {
		case msgID:
			rawID = str
		case msgSenderID:
			m.SenderID = str
		case msgSenderUsername:
			m.SenderUsername = str
		case msgRecipientID:
			m.RecipientID = str
		case msgRecipientUsername:
			m.RecipientUsername = str
		case msgContent:
			m.Content = str
		case msgCreatedAt:
			m.CreatedAt = fromNanos(varint)
		case msgReadAt:
			if varint != 0 {
				readAt := fromNanos(varint)
				m.ReadAt = &readAt
			}
		}
		return nil
	})
	if err != nil {
		return domain.Message{}, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("invalid message id %q: %w", rawID, err)
	}
	m.ID = id
	return m, nil
}

func marshalUser(u domain.User) []byte {
	var b []byte
	b = appendString(b, userID, u.ID)
	b = appendString(b, userUsername, u.Username)
	b = appendString(b, userKnownAs, u.KnownAs)
	b = appendString(b, userPasswordHash, u.PasswordHash)
	for _, role := range u.Roles {
		b = appendString(b, userRoles, role)
	}
	b = appendTime(b, userCreatedAt, u.CreatedAt)
	return b
}

func unmarshalUser(b []byte) (domain.User, error) {
	var u domain.User
	err := consumeFields(b, func(num protowire.Number, str string, varint uint64) error {
		switch num {
		case userID:
			u.ID = str
		case userUsername:
			u.Username = str
		case userKnownAs:
			u.KnownAs = str
		case userPasswordHash:
			u.PasswordHash = str
		case userRoles:
			u.Roles = append(u.Roles, str)
		case userCreatedAt:
			u.CreatedAt = fromNanos(varint)
		}
		return nil
	})
	return u, err
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(t.UnixNano()))
}

func fromNanos(v uint64) time.Time {
	return time.Unix(0, int64(v)).UTC()
}

// consumeFields walks a record and hands every string or varint field to visit.
// Unknown wire types are skipped so older binaries can read newer records.
func consumeFields(b []byte, visit func(num protowire.Number, str string, varint uint64) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := visit(num, v, 0); err != nil {
				return err
			}
			b = b[n:]
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := visit(num, "", v); err != nil {
				return err
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}

// DecodeMessage reads a record stored under MessagePrefix.
func DecodeMessage(b []byte) (domain.Message, error) {
	return unmarshalMessage(b)
}

// DecodeUser reads a record stored under UserPrefix.
func DecodeUser(b []byte) (domain.User, error) {
	return unmarshalUser(b)
}
