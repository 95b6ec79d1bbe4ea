package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fjorlistinn/internal/adapters/email"
	"fjorlistinn/internal/application/projections"
	"fjorlistinn/internal/domain/center"
	"fjorlistinn/internal/domain/gamification"
)

// ReportCenterStore defines the center store interface for reports.
type ReportCenterStore interface {
	GetByID(ctx context.Context, id string) (center.Center, error)
}

// SendActivityReportInput carries input for the activity report email.
type SendActivityReportInput struct {
	CenterID  string
	Recipient string // supervisor email address
}

// SendActivityReportDeps holds dependencies for SendActivityReport.
type SendActivityReportDeps struct {
	CenterStore  ReportCenterStore
	ActivityDeps projections.ActivityStatusDeps
	Sender       email.Sender
}

var ErrNoRecipient = errors.New("report recipient email is required")

// bucketLabels maps activity buckets to the report's display wording.
var bucketLabels = map[string]string{
	gamification.StatusActive:          "Virkir (0–7 dagar)",
	gamification.StatusFading:          "Að detta úr (8–14 dagar)",
	gamification.StatusRecentlyStopped: "Nýlega hættir (15–30 dagar)",
	gamification.StatusStopped:         "Hættir (31–60 dagar)",
	gamification.StatusInactive:        "Óvirkir (61+ dagar)",
}

// ExecuteSendActivityReport emails a center's activity breakdown to its
// supervisor: per-bucket counts plus the students who are fading, so staff
// know who to reach out to.
// PRE: CenterID names an existing center; Recipient is a valid address
// POST: One email queued with the provider
func ExecuteSendActivityReport(ctx context.Context, input SendActivityReportInput, deps SendActivityReportDeps) error {
	if strings.TrimSpace(input.Recipient) == "" {
		return ErrNoRecipient
	}

	c, err := deps.CenterStore.GetByID(ctx, input.CenterID)
	if err != nil {
		return err
	}

	status, err := projections.QueryActivityStatus(ctx, input.CenterID, deps.ActivityDeps)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Virknistaða — %s</h2>", c.Name)
	b.WriteString("<ul>")
	for _, bucket := range gamification.StatusBuckets {
		fmt.Fprintf(&b, "<li><strong>%s:</strong> %d</li>", bucketLabels[bucket], status.Counts[bucket])
	}
	b.WriteString("</ul>")

	// Students at risk of dropping out get named, not just counted
	fading := status.Students[gamification.StatusFading]
	if len(fading) > 0 {
		b.WriteString("<h3>Að detta úr</h3><ul>")
		for _, s := range fading {
			fmt.Fprintf(&b, "<li>%s (%s, %d. bekkur) — síðast %s</li>", s.Name, s.School, s.Grade, s.LastDate)
		}
		b.WriteString("</ul>")
	}

	_, err = deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{input.Recipient},
		Subject: fmt.Sprintf("Virkniskýrsla — %s", c.Name),
		HTML:    b.String(),
	})
	if err != nil {
		return err
	}

	slog.Info("report_event", "event", "activity_report_sent", "center_id", input.CenterID, "recipient", input.Recipient)
	return nil
}
