// Terminal frontend: pair with a partner through an invitation code, then
// exchange messages with live updates from the polling feed.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"chat-bridge/client"
	"chat-bridge/domain"
	"chat-bridge/domain/event"
	apperrors "chat-bridge/errors"
	"chat-bridge/feed"
	"chat-bridge/internal"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	server := flag.String("server", "http://localhost:8080", "Server base URL")
	name := flag.String("name", "", "Display name")
	lang := flag.String("lang", "", "Preferred language (ISO 639-1, e.g. fr)")
	create := flag.Bool("create", false, "Create an invitation and wait for a partner")
	join := flag.String("join", "", "Join with an invitation code")
	poll := flag.Duration("poll", 2*time.Second, "Feed polling interval")
	flag.Parse()

	if *name == "" || *lang == "" {
		return exitConfig, errors.New("both -name and -lang are required")
	}
	if *create == (*join != "") {
		return exitConfig, errors.New("pass exactly one of -create or -join CODE")
	}

	logger := internal.NewLogger("WARN")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(*server)
	session, err := api.StartSession(ctx)
	if err != nil {
		return exitRuntime, fmt.Errorf("session bootstrap failed: %w", err)
	}

	profile := client.Profile{Name: *name, Language: *lang}
	var chatID domain.ChatID
	var partner domain.Profile

	if *create {
		chatID, partner, err = createAndWait(ctx, api, profile)
	} else {
		chatID, partner, err = api.AcceptInvitation(ctx, *join, profile)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return exitOK, nil
		}
		return exitRuntime, err
	}

	printPartner(partner)

	poller := feed.NewPoller(api, *poll, logger)
	sub, err := poller.Subscribe(chatID, &printSink{selfID: session.UserID})
	if err != nil {
		return exitRuntime, err
	}
	defer sub.Unsubscribe()

	fmt.Println(color.New(color.FgGray).Render("Type a message and press enter. Ctrl+C to quit."))
	return sendLoop(ctx, api, chatID)
}

// createAndWait issues an invitation, shows the code and blocks until the
// partner redeems it. The partner link only exists once redemption happened,
// so polling the active session is the completion signal.
func createAndWait(ctx context.Context, api *client.Client, profile client.Profile) (domain.ChatID, domain.Profile, error) {
	code, err := api.CreateInvitation(ctx, profile)
	if err != nil {
		return "", domain.Profile{}, err
	}
	fmt.Printf("Share this code with your partner: %s\n",
		color.New(color.BgBlack, color.FgGreen).Render(" "+code+" "))
	fmt.Println("Waiting for your partner to join...")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", domain.Profile{}, ctx.Err()
		case <-ticker.C:
			link, err := api.ActiveSession(ctx)
			if errors.Is(err, apperrors.ErrNoActiveSession) {
				continue
			}
			if err != nil {
				return "", domain.Profile{}, err
			}
			return link.ChatID, domain.Profile{
				ID:       link.PartnerID,
				Name:     link.PartnerName,
				Language: link.PartnerLanguage,
			}, nil
		}
	}
}

func printPartner(partner domain.Profile) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Partner", "Language"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.Append([]string{partner.Name, partner.Language})
	table.Render()
}

func sendLoop(ctx context.Context, api *client.Client, chatID domain.ChatID) (int, error) {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nBye.")
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if _, err := api.SendMessage(ctx, chatID, text); err != nil {
				fmt.Println(color.New(color.FgRed).Render("send failed: " + err.Error()))
			}
		}
	}
}

// printSink renders feed events. Partner messages show the translation when
// one exists; updates reprint the message once its translation arrived.
type printSink struct {
	selfID string
}

func (s *printSink) Consume(_ context.Context, e event.MessageEvent) error {
	msg := e.Message
	if msg.SenderID == s.selfID {
		if e.Kind == event.KindInsert {
			fmt.Println(color.New(color.FgCyan).Render("you: " + msg.OriginalText))
		}
		return nil
	}

	text := msg.OriginalText
	if msg.TranslatedText != "" {
		text = fmt.Sprintf("%s  (%s)", msg.TranslatedText, msg.OriginalText)
	}
	prefix := "partner: "
	if e.Kind == event.KindUpdate {
		prefix = "partner (translated): "
	}
	fmt.Println(color.New(color.FgGreen).Render(prefix + text))
	return nil
}
