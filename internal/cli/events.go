package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events <code>",
		Short: "Stream room events over websocket",
		Long: `Connect to the room's websocket channel and stream events in real-time.

Events include:
  - rosterUpdated: Room member list changed
  - gameStarted: Game has started
  - quotaUpdated: Role quota was replaced

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			return streamEvents(code, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// wsEvent is a logged event line
type wsEvent struct {
	Time time.Time       `json:"time"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func streamEvents(roomCode string, jsonOutput bool) error {
	wsURL, err := websocketURL(cfg.ServerURL, roomCode)
	if err != nil {
		return err
	}

	header := http.Header{}
	if cfg.Identity != "" {
		header.Set("X-Identity", cfg.Identity)
	}

	// Set up cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: %w (HTTP %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	go func() {
		<-sigCh
		cancel()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Printf("Connected to room %s\n", roomCode)
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if !jsonOutput {
					fmt.Println("Disconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		printEvent(message, jsonOutput)
	}
}

func printEvent(message []byte, jsonOutput bool) {
	now := time.Now()

	var envelope struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(message, &envelope)

	if jsonOutput {
		evt := wsEvent{
			Time: now,
			Type: envelope.Type,
			Data: json.RawMessage(message),
		}
		jsonData, _ := json.Marshal(evt)
		fmt.Println(string(jsonData))
	} else {
		timestamp := now.Format("2006-01-02 15:04:05")
		display := string(message)
		if len(display) > 100 {
			display = display[:100] + "..."
		}
		display = strings.ReplaceAll(display, "\n", " ")
		fmt.Printf("[%s] %s: %s\n", timestamp, envelope.Type, display)
	}
}

// websocketURL converts the configured HTTP server URL into the room's
// websocket endpoint
func websocketURL(serverURL, roomCode string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(serverURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// Already a websocket URL
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/v1/rooms/" + roomCode + "/ws"
	return u.String(), nil
}
