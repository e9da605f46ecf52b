package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/tasks/v1"

	"github.com/harrisonrobin/mdtasks/pkg/auth"
	"github.com/harrisonrobin/mdtasks/pkg/export"
	"github.com/harrisonrobin/mdtasks/pkg/model"
)

// Scopes a future sync would request.
var Scopes = []string{
	calendar.CalendarEventsScope,
	tasks.TasksScope,
}

// Publisher is the Google push target. Only credential loading exists;
// Publish always reports export.ErrNotImplemented.
type Publisher struct {
	config *oauth2.Config
}

// NewPublisher loads the OAuth client secrets at clientSecretsFile.
func NewPublisher(clientSecretsFile string) (*Publisher, error) {
	cfg, err := auth.LoadConfig(clientSecretsFile, Scopes...)
	if err != nil {
		return nil, err
	}
	return &Publisher{config: cfg}, nil
}

// Configured reports whether usable client secrets exist at clientSecretsFile.
func Configured(clientSecretsFile string) bool {
	if clientSecretsFile == "" {
		return false
	}
	_, err := auth.LoadConfig(clientSecretsFile, Scopes...)
	return err == nil
}

// ClientID identifies the OAuth client the secrets belong to.
func (p *Publisher) ClientID() string {
	return p.config.ClientID
}

func (p *Publisher) Publish(ctx context.Context, ts []model.Task) error {
	if len(ts) == 0 {
		return export.ErrNoTasks
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s sync for %d tasks", export.ErrNotImplemented, export.Google, len(ts))
}
