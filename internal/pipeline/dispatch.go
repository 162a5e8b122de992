package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/formworks/formgate/internal/core/domain"
	"github.com/formworks/formgate/internal/metrics"
)

// dispatch persists the sanitized submission and notifies the operator
// concurrently. Both writes are launched together and both must succeed;
// any failure surfaces as a generic internal error with the cause logged,
// never leaked.
func (p *Pipeline) dispatch(ctx context.Context, req *request) *domain.Result {
	payload, err := json.Marshal(req.sub)
	if err != nil {
		p.logger.Error("serialize submission", slog.String("error", err.Error()))
		return internalError()
	}

	rec := &domain.StoredRecord{
		ID:        p.newID(),
		Payload:   string(payload),
		CreatedAt: p.now().Unix(),
	}

	msg := &domain.Notification{
		Source:  p.cfg.MailFrom,
		ReplyTo: []string{p.cfg.MailFrom},
		To:      []string{p.cfg.MailTo},
		Subject: p.cfg.MailSubject,
		Body:    notificationBody(req.sub),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := p.store.Put(gctx, p.cfg.Table, rec); err != nil {
			metrics.CollaboratorFailures.WithLabelValues("storage").Inc()
			p.logger.Error("persist submission",
				slog.String("record_id", rec.ID),
				slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := p.notifier.Send(gctx, msg); err != nil {
			metrics.CollaboratorFailures.WithLabelValues("notifier").Inc()
			p.logger.Error("send notification", slog.String("error", err.Error()))
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return internalError()
	}

	p.logger.Info("submission dispatched", slog.String("record_id", rec.ID))
	return nil
}

func internalError() *domain.Result {
	return domain.Reject(http.StatusInternalServerError, domain.KindInternalDispatch, "The submission could not be processed.")
}

// notificationBody flattens the submission into one "field: value"
// paragraph per field, in insertion order.
func notificationBody(sub *domain.ValidatedSubmission) string {
	var b strings.Builder
	for _, f := range sub.Fields() {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\n\n")
	}
	return b.String()
}
