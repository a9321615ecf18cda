package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recruitflow/recruitflow/internal/extract"
	"github.com/recruitflow/recruitflow/internal/fault"
	"github.com/recruitflow/recruitflow/internal/matching"
)

type stubSender struct {
	sent    []string
	failFor map[string]error
}

func (s *stubSender) Send(_ context.Context, to, _, _ string) error {
	if err, ok := s.failFor[to]; ok {
		return err
	}
	s.sent = append(s.sent, to)
	return nil
}

func matchFixture(index int, name, email string, score float64, skills ...string) matching.Match {
	return matching.Match{
		Candidate: extract.CandidateRecord{
			Index:           index,
			Name:            name,
			Email:           email,
			ExtractedSkills: skills,
		},
		SimilarityScore: score,
		Rank:            index + 1,
	}
}

func TestNotifySendsInRankedOrder(t *testing.T) {
	sender := &stubSender{}
	notifier := NewNotifier(sender, nil)

	matches := []matching.Match{
		matchFixture(0, "Ada", "ada@example.com", 0.92, "Python"),
		matchFixture(1, "Alan", "alan@example.com", 0.81, "SQL"),
	}

	result, err := notifier.Notify(context.Background(), matches, JobDisplay{Title: "Engineer", Company: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.EmailsSent)
	assert.Equal(t, []string{"ada@example.com", "alan@example.com"}, sender.sent)

	require.Len(t, result.Deliveries, 2)
	assert.Equal(t, StatusSent, result.Deliveries[0].Status)
	assert.Equal(t, 0, result.Deliveries[0].CandidateIndex)
}

func TestNotifySingleFailureDoesNotAbortRemaining(t *testing.T) {
	sender := &stubSender{failFor: map[string]error{
		"alan@example.com": errors.New("mailbox full"),
	}}
	notifier := NewNotifier(sender, nil)

	matches := []matching.Match{
		matchFixture(0, "Ada", "ada@example.com", 0.92),
		matchFixture(1, "Alan", "alan@example.com", 0.81),
		matchFixture(2, "Grace", "grace@example.com", 0.78),
	}

	result, err := notifier.Notify(context.Background(), matches, JobDisplay{})
	require.NoError(t, err, "per-recipient failures are not run failures")

	assert.Equal(t, 2, result.EmailsSent)
	require.Len(t, result.Deliveries, 3)
	assert.Equal(t, StatusFailed, result.Deliveries[1].Status)
	assert.Contains(t, result.Deliveries[1].Error, "mailbox full")
	assert.Equal(t, StatusSent, result.Deliveries[2].Status)
}

func TestNotifyInvalidRecipientRecordedAsFailed(t *testing.T) {
	sender := &stubSender{}
	notifier := NewNotifier(sender, nil)

	matches := []matching.Match{
		matchFixture(0, "Ada", "not-an-email", 0.9),
	}

	result, err := notifier.Notify(context.Background(), matches, JobDisplay{})
	require.NoError(t, err)

	assert.Zero(t, result.EmailsSent)
	assert.Equal(t, StatusFailed, result.Deliveries[0].Status)
	assert.Empty(t, sender.sent, "invalid address must never reach the transport")
}

func TestNotifyRequiresMatches(t *testing.T) {
	notifier := NewNotifier(&stubSender{}, nil)

	_, err := notifier.Notify(context.Background(), nil, JobDisplay{})
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Validation))
}

func TestBodyMentionsTopThreeSkills(t *testing.T) {
	body := Body("Ada", JobDisplay{Title: "Engineer", Company: "Acme"}, 0.87,
		[]string{"Python", "SQL", "Docker", "Kubernetes"})

	assert.Contains(t, body, "Dear Ada,")
	assert.Contains(t, body, "Python, SQL, Docker")
	assert.NotContains(t, body, "Kubernetes")
	assert.Contains(t, body, "Match Score: 87%")
	assert.Contains(t, body, "Engineer opportunity at Acme")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Exciting Opportunity at Acme - Engineer", Subject(JobDisplay{Title: "Engineer", Company: "Acme"}))
	assert.Equal(t, "Exciting Opportunity - Engineer", Subject(JobDisplay{Title: "Engineer"}))
	assert.Equal(t, "Exciting Job Opportunity", Subject(JobDisplay{}))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("user@example.com"))
	assert.True(t, ValidEmail("  padded@example.io "))
	assert.False(t, ValidEmail("nope"))
	assert.False(t, ValidEmail("user@host"))
	assert.False(t, ValidEmail(""))
}

func TestSMTPSenderBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	sender := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", From: "hr@example.com", Password: "pw"})
	sender.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := sender.Send(context.Background(), "ada@example.com", "Hello", "Body text")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr, "default port applied")
	assert.Equal(t, "hr@example.com", gotFrom)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Hello\r\n")
	assert.True(t, strings.HasSuffix(msg, "Body text"))
}

func TestSMTPSenderRespectsCancelledContext(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", From: "hr@example.com"})
	sender.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("transport must not be reached with a cancelled context")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, "ada@example.com", "s", "b")
	require.Error(t, err)
}
