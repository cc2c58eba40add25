package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bricks-api/internal/domain"
)

// mockVerificationRepo guarda registros en memoria con el mismo contrato
// que la version pgx: Delete devuelve pgx.ErrNoRows cuando la fila ya no
// existe.
type mockVerificationRepo struct {
	mu      sync.Mutex
	records map[string]domain.Verification
}

func newMockVerificationRepo() *mockVerificationRepo {
	return &mockVerificationRepo{records: make(map[string]domain.Verification)}
}

func (m *mockVerificationRepo) Create(_ context.Context, record domain.Verification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record
	return nil
}

func (m *mockVerificationRepo) GetByCode(_ context.Context, code string) (domain.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range m.records {
		if record.Code == code {
			return record, nil
		}
	}
	return domain.Verification{}, pgx.ErrNoRows
}

func (m *mockVerificationRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.records, id)
	return nil
}

func (m *mockVerificationRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func TestVerificationService_CreateAndConsume(t *testing.T) {
	repo := newMockVerificationRepo()
	svc := NewVerificationService(zap.NewNop(), repo, nil)
	ctx := context.Background()

	code, err := svc.CreateCode(ctx, "u1", time.Hour)
	if err != nil {
		t.Fatalf("create code: %v", err)
	}
	if code == "" {
		t.Fatalf("expected a code")
	}

	record, err := svc.Consume(ctx, code)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if record.UserID != "u1" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if repo.count() != 0 {
		t.Fatalf("record should be gone after consume")
	}
}

func TestVerificationService_SecondConsumeFails(t *testing.T) {
	repo := newMockVerificationRepo()
	svc := NewVerificationService(zap.NewNop(), repo, nil)
	ctx := context.Background()

	code, err := svc.CreateCode(ctx, "u1", time.Hour)
	if err != nil {
		t.Fatalf("create code: %v", err)
	}
	if _, err := svc.Consume(ctx, code); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if _, err := svc.Consume(ctx, code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode on second consume, got %v", err)
	}
}

func TestVerificationService_ConcurrentConsumeHasOneWinner(t *testing.T) {
	repo := newMockVerificationRepo()
	svc := NewVerificationService(zap.NewNop(), repo, nil)
	ctx := context.Background()

	code, err := svc.CreateCode(ctx, "u1", time.Hour)
	if err != nil {
		t.Fatalf("create code: %v", err)
	}

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Consume(ctx, code)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrInvalidCode):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d (losses %d)", wins, losses)
	}
}

func TestVerificationService_ExpiredCode(t *testing.T) {
	repo := newMockVerificationRepo()
	clock := &fakeClock{now: time.Now().UTC()}
	svc := NewVerificationService(zap.NewNop(), repo, clock)
	ctx := context.Background()

	code, err := svc.CreateCode(ctx, "u1", time.Minute)
	if err != nil {
		t.Fatalf("create code: %v", err)
	}

	clock.Advance(2 * time.Minute)

	if _, err := svc.Consume(ctx, code); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}
	// El registro vencido no se borra en la lectura.
	if repo.count() != 1 {
		t.Fatalf("expired record should survive a failed consume")
	}
}

func TestVerificationService_UnknownCode(t *testing.T) {
	svc := NewVerificationService(zap.NewNop(), newMockVerificationRepo(), nil)
	if _, err := svc.Consume(context.Background(), "nope"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	if _, err := svc.Consume(context.Background(), ""); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode for empty code, got %v", err)
	}
}

func TestVerificationService_LinkTokenRoundTrip(t *testing.T) {
	svc := NewVerificationService(zap.NewNop(), newMockVerificationRepo(), nil)

	token, err := svc.EncodeLinkToken("a@b.com", "code-123")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := svc.DecodeLinkToken(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Email != "a@b.com" || decoded.Code != "code-123" {
		t.Fatalf("round trip lost data: %+v", decoded)
	}
}

func TestVerificationService_DecodeLinkTokenRejectsGarbage(t *testing.T) {
	svc := NewVerificationService(zap.NewNop(), newMockVerificationRepo(), nil)
	for _, token := range []string{"not base64!!", "aGVsbG8", ""} {
		if _, err := svc.DecodeLinkToken(token); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("expected ErrInvalidCode for %q, got %v", token, err)
		}
	}
}
