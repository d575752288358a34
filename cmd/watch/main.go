// Command watch connects to the leaderboard push stream and prints every
// ranked snapshot it receives.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

type entry struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	ReferralCount int    `json:"referral_count"`
	Rank          int    `json:"rank"`
}

type message struct {
	Type    string `json:"type"`
	Payload struct {
		Entries []entry `json:"entries"`
		Total   int     `json:"total"`
	} `json:"payload"`
}

func main() {
	url := flag.String("url", "ws://localhost:8080/api/v1/leaderboard/ws", "leaderboard websocket endpoint")
	raw := flag.Bool("raw", false, "print messages as received")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	messageQueue := make(chan []byte)

	go func() {
		defer close(messageQueue)
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				log.Println("read error:", err)
				return
			}

			messageQueue <- p
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case p, ok := <-messageQueue:
			if !ok {
				return
			}
			if *raw {
				log.Printf("Received:\n%s\n", p)
				continue
			}
			if err := printMessage(os.Stdout, p); err != nil {
				log.Println("decode error:", err)
			}
		case <-interrupt:
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func printMessage(w io.Writer, p []byte) error {
	var msg message
	if err := json.Unmarshal(p, &msg); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %d entries\n", msg.Type, msg.Payload.Total)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tUSER\tREFERRALS\tID")
	for _, e := range msg.Payload.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", e.Rank, e.UserID, e.ReferralCount, e.ID)
	}
	return tw.Flush()
}
