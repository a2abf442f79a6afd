package notify

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	gomail "gopkg.in/gomail.v2"

	"github.com/melih/fotokutu/internal/models"
)

var tracer = otel.Tracer("fotokutu-notify")

// Mailer sends upload summaries to a fixed recipient over SMTP. The sender
// credentials are configured once at startup and never change.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

// NewMailer creates a mailer bound to one sender and one recipient
func NewMailer(host string, port int, user, password, from, to string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		to:     to,
	}
}

// SendUploadSummary sends one HTML message summarizing an upload batch.
// The dial itself has no context support, so cancellation only gates entry.
func (m *Mailer) SendUploadSummary(ctx context.Context, folderName string, files []models.StoredFile) error {
	_, span := tracer.Start(ctx, "notify.send_upload_summary",
		trace.WithAttributes(
			attribute.String("folder_name", folderName),
			attribute.Int("file_count", len(files)),
		),
	)
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return models.NewNotificationError(err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", fmt.Sprintf("Yeni yükleme: %s", folderName))
	msg.SetBody("text/html", summaryBody(folderName, files))

	if err := m.dialer.DialAndSend(msg); err != nil {
		span.RecordError(err)
		return models.NewNotificationError(err)
	}

	return nil
}

// summaryBody renders the HTML summary: per-type counts, then one link per file.
func summaryBody(folderName string, files []models.StoredFile) string {
	photos := 0
	audios := 0
	for _, f := range files {
		if f.Type == string(models.KindAudio) {
			audios++
		} else {
			photos++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>", folderName)
	fmt.Fprintf(&b, "<p>%d fotoğraf, %d ses kaydı yüklendi.</p>", photos, audios)

	if len(files) > 0 {
		b.WriteString("<ul>")
		for _, f := range files {
			fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, f.Link, f.Name)
		}
		b.WriteString("</ul>")
	}

	return b.String()
}
