package main

import (
	"bufio"
	"context"
	"dm-lab/domain/event"
	"dm-lab/dto"
	"dm-lab/infrastructure/grpc/api"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"DM_SERVER_ADDR,default=localhost:5001"`
	Username      string `env:"DM_USERNAME,required=true"`
	Password      string `env:"DM_PASSWORD,required=true"`
	Peer          string `env:"DM_PEER,required=true"`
	Register      bool   `env:"DM_REGISTER,default=false"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run logs in, opens the conversation with DM_PEER and sends every stdin line to it.
func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(config.ServerAddress,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(api.DefaultCallOptions()...),
	)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	token, err := authenticate(ctx, api.NewAuthServiceClient(conn), config)
	if err != nil {
		return exitRuntime, err
	}
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

	messages := api.NewMessageServiceClient(conn)
	stream, err := messages.Connect(ctx, &api.ConnectRequest{Username: config.Peer})
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open stream: %w", err)
	}
	log.Info("Connected, type a message and press enter (Ctrl+C to quit)",
		"server", config.ServerAddress, "peer", config.Peer)

	go sendLines(ctx, log, messages, config.Peer, os.Stdin)

	for {
		evt, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil || err == io.EOF {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("stream error: %w", err)
		}
		render(config.Username, evt)
	}
}

func authenticate(ctx context.Context, client api.AuthServiceClient, config Config) (string, error) {
	var (
		response *api.AuthResponse
		err      error
	)
	if config.Register {
		response, err = client.Register(ctx, &api.RegisterRequest{Username: config.Username, Password: config.Password})
	} else {
		response, err = client.Login(ctx, &api.LoginRequest{Username: config.Username, Password: config.Password})
	}
	if err != nil {
		return "", fmt.Errorf("authentication failed: %w", err)
	}
	return response.Account.Token, nil
}

func sendLines(ctx context.Context, log *slog.Logger, client api.MessageServiceClient, peer string, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		content := strings.TrimSpace(scanner.Text())
		if content == "" {
			continue
		}
		if _, err := client.SendMessage(ctx, &api.SendMessageRequest{RecipientUsername: peer, Content: content}); err != nil {
			log.Error("Message not sent", "error", err)
		}
	}
}

func render(me string, evt *api.ServerEvent) {
	switch event.Name(evt.Event) {
	case event.ReceiveMessageThread:
		var thread []dto.MessageDto
		if err := json.Unmarshal(evt.Data, &thread); err != nil {
			color.Red.Println("unreadable thread:", err)
			return
		}
		color.Gray.Printf("--- %d messages ---\n", len(thread))
		for _, message := range thread {
			printMessage(me, message)
		}
	case event.NewMessage:
		var message dto.MessageDto
		if err := json.Unmarshal(evt.Data, &message); err != nil {
			color.Red.Println("unreadable message:", err)
			return
		}
		printMessage(me, message)
	case event.MessagesRead:
		var read event.MessagesReadPayload
		if err := json.Unmarshal(evt.Data, &read); err == nil {
			color.Gray.Printf("%s read %d message(s)\n", read.Username, read.Count)
		}
	case event.Error:
		var payload event.ErrorPayload
		_ = json.Unmarshal(evt.Data, &payload)
		color.Red.Println("error:", payload.Message)
	}
}

func printMessage(me string, message dto.MessageDto) {
	status := ""
	if message.SenderUsername == me && message.DateRead != nil {
		status = " ✓"
	}
	line := fmt.Sprintf("[%s] %s: %s%s",
		message.MessageSent.Local().Format(time.TimeOnly),
		message.SenderUsername, message.Content, status)
	if message.SenderUsername == me {
		color.Cyan.Println(line)
		return
	}
	color.Green.Println(line)
}
