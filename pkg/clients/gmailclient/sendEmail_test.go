package gmailclient

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("rota@example.com", "manager@example.com", "Schedule", "Mon: Anna")

	assert.True(t, strings.HasPrefix(msg, "From: rota@example.com\r\nTo: manager@example.com\r\n"))
	assert.Contains(t, msg, "Subject: Schedule\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nMon: Anna"))
}

func TestBuildMessage_EncodesNonASCIISubject(t *testing.T) {
	msg := buildMessage("", "manager@example.com", "График смен", "")

	assert.False(t, strings.Contains(msg, "From:"))
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.NotContains(t, msg, "График")
}
