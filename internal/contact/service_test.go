package contact

import (
	"bytes"
	"context"
	"testing"

	"github.com/brightloom/storefront-backend/pkg/db/models"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/brightloom/storefront-backend/pkg/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContactRepo struct {
	created []*models.ContactMessage
}

func (f *fakeContactRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	f.created = append(f.created, msg)
	return nil
}

type fakeEnqueuer struct {
	sent []mailer.Message
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, msg mailer.Message) {
	f.sent = append(f.sent, msg)
}

func newTestService(t *testing.T, repo Repository, notify mailEnqueuer) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "contact-test", Output: &bytes.Buffer{}})
	svc, err := NewService(repo, notify, "studio@example.com", logg)
	require.NoError(t, err)
	return svc
}

func TestSubmitStoresAndNotifies(t *testing.T) {
	repo := &fakeContactRepo{}
	mail := &fakeEnqueuer{}
	svc := newTestService(t, repo, mail)

	msg, err := svc.Submit(context.Background(), SubmitInput{
		Name:    "Jo",
		Email:   "jo@example.com",
		Message: "Do you ship internationally?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jo", msg.Name)
	require.Len(t, repo.created, 1)
	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].Text, "jo@example.com")
}

func TestSubmitValidation(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := newTestService(t, repo, &fakeEnqueuer{})

	tests := []struct {
		name  string
		input SubmitInput
	}{
		{"missing email", SubmitInput{Name: "Jo", Message: "hello there"}},
		{"bad email", SubmitInput{Name: "Jo", Email: "not-an-email", Message: "hello"}},
		{"empty message", SubmitInput{Name: "Jo", Email: "jo@example.com"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tc.input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
	assert.Empty(t, repo.created)
}
