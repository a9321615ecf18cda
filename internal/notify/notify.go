package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/recruitflow/recruitflow/internal/fault"
	"github.com/recruitflow/recruitflow/internal/matching"
)

// JobDisplay carries the only job fields the notifier may see. The full job
// record and analytics stay out of the email path on purpose.
type JobDisplay struct {
	Title   string `json:"title" mapstructure:"title"`
	Company string `json:"company" mapstructure:"company"`
}

// Delivery is the per-recipient outcome of one send attempt.
type Delivery struct {
	CandidateIndex int    `json:"candidate_id"`
	Email          string `json:"candidate_email"`
	Status         string `json:"status"` // "sent" or "failed"
	Error          string `json:"error,omitempty"`
}

// Result aggregates deliveries for one notification pass.
type Result struct {
	EmailsSent int        `json:"emails_sent"`
	Deliveries []Delivery `json:"email_results"`
}

// Sender delivers a single message. Transport details (SMTP host, auth) live
// entirely behind this interface.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Notifier composes and dispatches candidate outreach emails, one recipient
// at a time in ranked order. A failed recipient is recorded and does not
// abort the remaining sends.
type Notifier struct {
	sender Sender
	logger *zap.Logger
}

// NewNotifier builds a notifier around the given sender.
func NewNotifier(sender Sender, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{sender: sender, logger: logger}
}

// Notify emails every match. It fails only on contract violations (no
// matches to notify); individual delivery failures are reported per
// recipient inside the result.
func (n *Notifier) Notify(ctx context.Context, matches []matching.Match, job JobDisplay) (*Result, error) {
	if len(matches) == 0 {
		return nil, fault.New(fault.Validation, "no matches to notify")
	}
	if n.sender == nil {
		return nil, fault.New(fault.Validation, "sender is not configured")
	}

	result := &Result{Deliveries: make([]Delivery, 0, len(matches))}

	for _, match := range matches {
		candidate := match.Candidate
		delivery := Delivery{
			CandidateIndex: candidate.Index,
			Email:          candidate.Email,
		}

		if err := n.send(ctx, match, job); err != nil {
			delivery.Status = StatusFailed
			delivery.Error = err.Error()
			n.logger.Warn("email delivery failed",
				zap.Int("candidate_index", candidate.Index),
				zap.String("email", candidate.Email),
				zap.Error(err),
			)
		} else {
			delivery.Status = StatusSent
			result.EmailsSent++
			n.logger.Info("email sent",
				zap.Int("candidate_index", candidate.Index),
				zap.String("email", candidate.Email),
			)
		}

		result.Deliveries = append(result.Deliveries, delivery)
	}

	return result, nil
}

// Delivery statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

func (n *Notifier) send(ctx context.Context, match matching.Match, job JobDisplay) error {
	candidate := match.Candidate

	if !ValidEmail(candidate.Email) {
		return fault.Newf(fault.Notification, "invalid recipient email %q", candidate.Email)
	}

	subject := Subject(job)
	body := Body(candidate.Name, job, match.SimilarityScore, candidate.ExtractedSkills)

	if err := n.sender.Send(ctx, candidate.Email, subject, body); err != nil {
		return fault.Wrap(fault.Notification, err, "send email")
	}
	return nil
}
