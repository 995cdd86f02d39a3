package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	_ "github.com/emersion/go-message/charset"
	gomail "github.com/emersion/go-message/mail"
)

// IMAPConfig holds the connection settings for one mailbox.
type IMAPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Folder   string
	Insecure bool // dial without TLS
}

// IMAPMailbox fetches messages over IMAP. Every Fetch runs a complete
// login/select/search/fetch/logout session, so no connection is held open
// between poll cycles.
type IMAPMailbox struct {
	cfg IMAPConfig
}

// NewIMAPMailbox creates a mailbox for the given connection settings.
func NewIMAPMailbox(cfg IMAPConfig) *IMAPMailbox {
	if cfg.Port == 0 {
		cfg.Port = 993
	}
	if cfg.Folder == "" {
		cfg.Folder = "INBOX"
	}
	return &IMAPMailbox{cfg: cfg}
}

// Fetch returns every message received in the folder since the given time.
// Messages that cannot be parsed are logged and skipped, never fatal to the
// batch.
func (m *IMAPMailbox) Fetch(ctx context.Context, since time.Time) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var (
		client *imapclient.Client
		err    error
	)
	if m.cfg.Insecure {
		client, err = imapclient.DialInsecure(addr, nil)
	} else {
		client, err = imapclient.DialTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer client.Close()

	if err := client.Login(m.cfg.Username, m.cfg.Password).Wait(); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	// Best-effort logout; the connection is closed either way.
	defer client.Logout()

	if _, err := client.Select(m.cfg.Folder, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("selecting folder %s: %w", m.cfg.Folder, err)
	}

	search, err := client.UIDSearch(&imap.SearchCriteria{Since: since}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching since %s: %w", since.Format("2006-01-02"), err)
	}

	uids := search.AllUIDs()
	slog.Debug("Searched mailbox",
		"folder", m.cfg.Folder,
		"since", since.Format("2006-01-02"),
		"found", len(uids),
	)
	if len(uids) == 0 {
		return nil, nil
	}

	bodySection := &imap.FetchItemBodySection{}
	fetchOptions := &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	buffers, err := client.Fetch(imap.UIDSetNum(uids...), fetchOptions).Collect()
	if err != nil {
		return nil, fmt.Errorf("fetching %d messages: %w", len(uids), err)
	}

	messages := make([]Message, 0, len(buffers))
	for _, buf := range buffers {
		msg, err := buildMessage(buf, bodySection)
		if err != nil {
			slog.Debug("Skipping unparseable message", "uid", uint32(buf.UID), "error", err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func buildMessage(buf *imapclient.FetchMessageBuffer, section *imap.FetchItemBodySection) (Message, error) {
	msg := Message{UID: strconv.FormatUint(uint64(buf.UID), 10)}

	if env := buf.Envelope; env != nil {
		msg.MessageID = env.MessageID
		msg.Subject = env.Subject
		if !env.Date.IsZero() {
			msg.ReceivedAt = env.Date.UTC().Format(time.RFC3339)
		}
		if len(env.From) > 0 {
			msg.FromName = strings.TrimSpace(env.From[0].Name)
			if env.From[0].Mailbox != "" && env.From[0].Host != "" {
				msg.FromAddress = env.From[0].Addr()
			}
		}
	}

	raw := buf.FindBodySection(section)
	if len(raw) == 0 {
		return msg, nil
	}

	body, err := extractBody(raw)
	if err != nil {
		return Message{}, err
	}
	msg.Body = body
	return msg, nil
}

// extractBody picks the display body out of a raw RFC 822 message, preferring
// HTML parts over plain text. Transfer encodings are decoded by the reader.
func extractBody(raw []byte) (string, error) {
	reader, err := gomail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("reading message: %w", err)
	}
	defer reader.Close()

	var htmlParts, textParts []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep whatever parts already decoded.
			break
		}

		header, ok := part.Header.(*gomail.InlineHeader)
		if !ok {
			continue // attachments are never opened
		}

		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}

		content, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch contentType {
		case "text/html":
			htmlParts = append(htmlParts, string(content))
		case "text/plain":
			textParts = append(textParts, string(content))
		}
	}

	if len(htmlParts) > 0 {
		return strings.Join(htmlParts, "\n"), nil
	}
	return strings.Join(textParts, "\n"), nil
}
