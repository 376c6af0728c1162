package inbox

import (
	"strings"
	"testing"
)

func TestParseMessage_PrefersPlainPart(t *testing.T) {
	raw := strings.ReplaceAll(`From: Recruiter <jobs@medtech.example>
Subject: =?UTF-8?Q?Interview_invitation?=
Date: Tue, 10 Mar 2026 09:00:00 +0000
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="b1"

--b1
Content-Type: text/plain; charset=utf-8
Content-Transfer-Encoding: quoted-printable

Hello, we would like to schedule an interview.
--b1
Content-Type: text/html; charset=utf-8

<p>Hello</p>
--b1--
`, "\n", "\r\n")

	m := ParseMessage([]byte(raw))
	if m.Subject != "Interview invitation" {
		t.Errorf("subject: %q", m.Subject)
	}
	if !strings.Contains(m.From, "jobs@medtech.example") {
		t.Errorf("from: %q", m.From)
	}
	if !strings.Contains(m.Body, "schedule an interview") {
		t.Errorf("body: %q", m.Body)
	}
	if m.Date.IsZero() {
		t.Error("date not parsed")
	}
}

func TestParseMessage_HTMLOnly(t *testing.T) {
	raw := strings.ReplaceAll(`From: hr@startupco.example
Subject: Update
Content-Type: text/html; charset=utf-8

<html><head><style>p{color:red}</style></head><body><p>Unfortunately,</p>
<p>we are   not moving forward.</p></body></html>
`, "\n", "\r\n")

	m := ParseMessage([]byte(raw))
	if m.Body != "Unfortunately, we are not moving forward." {
		t.Errorf("body: %q", m.Body)
	}
}

func TestParseMessage_Garbage(t *testing.T) {
	m := ParseMessage([]byte("no headers here"))
	if m.Body == "" {
		t.Error("unparseable input should fall back to raw body")
	}
}
