package inbox

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Message is one fetched email reduced to what classification needs.
type Message struct {
	UID     uint32
	From    string
	Subject string
	Date    time.Time
	Body    string
}

const maxBody = 6 << 20

// ParseMessage decodes an RFC 822 message. The longest text/plain part wins;
// HTML parts are flattened to text when no plain part exists.
func ParseMessage(raw []byte) Message {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return Message{Body: string(raw)}
	}

	var m Message
	m.Subject = decodeHeader(msg.Header.Get("Subject"))
	m.From = decodeHeader(msg.Header.Get("From"))
	if d, err := mail.ParseDate(msg.Header.Get("Date")); err == nil {
		m.Date = d
	}

	body, _ := io.ReadAll(io.LimitReader(msg.Body, maxBody))
	plain, htmlPart := textParts(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), body)
	switch {
	case strings.TrimSpace(plain) != "":
		m.Body = plain
	case htmlPart != "":
		m.Body = htmlToText(htmlPart)
	default:
		m.Body = string(body)
	}
	return m
}

func textParts(contentType, cte string, body []byte) (plain, htmlPart string) {
	media, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(decodeBody(body, cte)), ""
	}
	media = strings.ToLower(media)

	if !strings.HasPrefix(media, "multipart/") {
		s := string(decodeBody(body, cte))
		if media == "text/html" {
			return "", s
		}
		return s, ""
	}

	mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	for {
		p, err := mr.NextPart()
		if err != nil {
			break
		}
		b, _ := io.ReadAll(io.LimitReader(p, maxBody))
		pl, ht := textParts(p.Header.Get("Content-Type"), p.Header.Get("Content-Transfer-Encoding"), b)
		if len(pl) > len(plain) {
			plain = pl
		}
		if len(ht) > len(htmlPart) {
			htmlPart = ht
		}
	}
	return plain, htmlPart
}

func decodeBody(b []byte, cte string) []byte {
	var r io.Reader
	switch strings.ToLower(strings.TrimSpace(cte)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b))
	case "quoted-printable":
		r = quotedprintable.NewReader(bytes.NewReader(b))
	default:
		return b
	}
	out, _ := io.ReadAll(io.LimitReader(r, maxBody))
	return out
}

func decodeHeader(s string) string {
	s = strings.TrimSpace(s)
	out, err := new(mime.WordDecoder).DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}

func htmlToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style, head").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
