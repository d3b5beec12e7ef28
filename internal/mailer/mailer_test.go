package mailer

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-booking/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailerCompose(t *testing.T) {
	m := NewSMTPMailer("localhost", 2525, "", "", "Cinema <no-reply@cinema.test>")

	event := events.BookingConfirmed{
		BookingID:   1,
		Reference:   uuid.MustParse("6f1c2c7e-8a0b-4c1e-9d55-0b8a4f0e2d11"),
		UserName:    "Jane",
		MovieTitle:  "Inception",
		TheaterName: "Downtown",
		HallName:    "Hall 1",
		StartTime:   time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC),
		Seats:       []string{"1-1", "1-2"},
		TotalPrice:  decimal.RequireFromString("400"),
	}

	msg, err := m.compose("jane@example.com", "booking_confirmation.tmpl", event)
	require.NoError(t, err)

	assert.Equal(t, []string{"jane@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Your booking 6f1c2c7e-8a0b-4c1e-9d55-0b8a4f0e2d11 is confirmed"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, "Inception")
	assert.Contains(t, body, "1-1, 1-2")
	assert.Contains(t, body, "400.00")
	assert.Contains(t, body, "Sun, 01 Mar 2026 18:30 UTC")
}

func TestSMTPMailerUnknownTemplate(t *testing.T) {
	m := NewSMTPMailer("localhost", 2525, "", "", "no-reply@cinema.test")

	_, err := m.compose("jane@example.com", "missing.tmpl", nil)
	assert.Error(t, err)
}

func TestMockMailerRecordsEmails(t *testing.T) {
	m := NewMockMailer()

	require.NoError(t, m.Send("a@example.com", "booking_confirmation.tmpl", 1))
	require.NoError(t, m.Send("b@example.com", "booking_confirmation.tmpl", 2))

	sent := m.GetSentEmails()
	require.Len(t, sent, 2)
	assert.Equal(t, "b@example.com", sent[1].Recipient)

	m.Reset()
	assert.Empty(t, m.GetSentEmails())
}
