package mailstore

import (
	"fmt"
	"io"
	"strings"
	"time"

	_ "github.com/emersion/go-message/charset" // register charset decoders
	"github.com/emersion/go-message/mail"
)

// Document is one candidate receipt message: the header fields the engine
// needs plus the single HTML body part.
type Document struct {
	Subject   string
	Date      time.Time
	Recipient string
	HTML      string
}

// ParseMessage reads one raw RFC822 message and extracts the document. It
// fails when the Date or To header is unusable or when the message carries
// no inline HTML part.
func ParseMessage(r io.Reader) (*Document, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}

	doc := &Document{}

	doc.Date, err = mr.Header.Date()
	if err != nil {
		return nil, fmt.Errorf("parsing Date header: %w", err)
	}
	if doc.Date.IsZero() {
		return nil, fmt.Errorf("message has no Date header")
	}

	if subject, err := mr.Header.Subject(); err == nil {
		doc.Subject = subject
	}

	addrs, err := mr.Header.AddressList("To")
	if err != nil {
		return nil, fmt.Errorf("parsing To header: %w", err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("message has no recipient")
	}
	doc.Recipient = addrs[0].Address

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading message part: %w", err)
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ctype, _, err := h.ContentType()
		if err != nil || !strings.EqualFold(ctype, "text/html") {
			continue
		}

		b, err := io.ReadAll(p.Body)
		if err != nil {
			return nil, fmt.Errorf("reading html part: %w", err)
		}
		doc.HTML = string(b)
		break
	}

	if doc.HTML == "" {
		return nil, fmt.Errorf("message has no html part")
	}

	return doc, nil
}
