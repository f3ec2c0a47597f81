package repositories

import (
	"errors"
	"sync"
	"testing"
	"time"

	"chat-bridge/domain"
	apperrors "chat-bridge/errors"

	"github.com/stretchr/testify/require"
)

func pendingInvitation(code string) domain.Invitation {
	return domain.Invitation{
		Code:      code,
		Creator:   domain.Profile{ID: "creator-1", Name: "Alice", Language: "fr"},
		Status:    domain.InvitationPending,
		CreatedAt: time.Now().UTC(),
	}
}

func Test_InvitationRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	repository := NewInvitationRepository(testDB(t))

	inv := pendingInvitation("AB12CD")
	req.NoError(repository.Create(inv))

	fetched, err := repository.Get("AB12CD")
	req.NoError(err)
	req.Equal(inv.Code, fetched.Code)
	req.Equal(inv.Creator, fetched.Creator)
	req.Equal(domain.InvitationPending, fetched.Status)
}

func Test_InvitationRepository_CreateRejectsTakenCode(t *testing.T) {
	req := require.New(t)
	repository := NewInvitationRepository(testDB(t))

	req.NoError(repository.Create(pendingInvitation("AB12CD")))

	err := repository.Create(pendingInvitation("AB12CD"))
	req.ErrorIs(err, apperrors.ErrCodeTaken)
}

func Test_InvitationRepository_GetUnknownCode(t *testing.T) {
	req := require.New(t)
	repository := NewInvitationRepository(testDB(t))

	_, err := repository.Get("ZZZZZZ")
	req.ErrorIs(err, apperrors.ErrInvitationNotFound)
}

func Test_InvitationRepository_Redeem(t *testing.T) {
	req := require.New(t)
	repository := NewInvitationRepository(testDB(t))
	req.NoError(repository.Create(pendingInvitation("AB12CD")))

	joiner := domain.Profile{ID: "joiner-1", Name: "Bob", Language: "en"}
	inv, err := repository.Redeem("AB12CD", joiner)
	req.NoError(err)
	req.Equal("creator-1", inv.Creator.ID)

	stored, err := repository.Get("AB12CD")
	req.NoError(err)
	req.Equal(domain.InvitationAccepted, stored.Status)
	req.Equal(joiner, stored.Joiner)
}

func Test_InvitationRepository_RedeemTwice(t *testing.T) {
	req := require.New(t)
	repository := NewInvitationRepository(testDB(t))
	req.NoError(repository.Create(pendingInvitation("AB12CD")))

	_, err := repository.Redeem("AB12CD", domain.Profile{ID: "joiner-1", Name: "Bob", Language: "en"})
	req.NoError(err)

	_, err = repository.Redeem("AB12CD", domain.Profile{ID: "joiner-2", Name: "Carol", Language: "es"})
	req.ErrorIs(err, apperrors.ErrInvitationUsed)

	// The winner's joiner is untouched by the failed second attempt.
	stored, err := repository.Get("AB12CD")
	req.NoError(err)
	req.Equal("joiner-1", stored.Joiner.ID)
}

func Test_InvitationRepository_RedeemUnknownCode(t *testing.T) {
	req := require.New(t)
	repository := NewInvitationRepository(testDB(t))

	_, err := repository.Redeem("ZZZZZZ", domain.Profile{ID: "joiner-1", Name: "Bob", Language: "en"})
	req.ErrorIs(err, apperrors.ErrInvitationNotFound)
}

func Test_InvitationRepository_SelfRedemption(t *testing.T) {
	req := require.New(t)
	repository := NewInvitationRepository(testDB(t))
	req.NoError(repository.Create(pendingInvitation("AB12CD")))

	_, err := repository.Redeem("AB12CD", domain.Profile{ID: "creator-1", Name: "Alice", Language: "fr"})
	req.ErrorIs(err, apperrors.ErrSelfRedemption)

	// Still pending, so a legitimate partner can join.
	stored, err := repository.Get("AB12CD")
	req.NoError(err)
	req.Equal(domain.InvitationPending, stored.Status)
}

func Test_InvitationRepository_ConcurrentRedemption(t *testing.T) {
	req := require.New(t)
	repository := NewInvitationRepository(testDB(t))
	req.NoError(repository.Create(pendingInvitation("AB12CD")))

	const joiners = 8
	results := make(chan error, joiners)
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		joiner := domain.Profile{ID: string(rune('a'+i)) + "-joiner", Name: "Joiner", Language: "en"}
		go func() {
			defer wg.Done()
			_, err := repository.Redeem("AB12CD", joiner)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	// Exactly one attempt wins, every other observes the invitation as used.
	var wins, used int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperrors.ErrInvitationUsed):
			used++
		default:
			req.Fail("unexpected error", "got %v", err)
		}
	}
	req.Equal(1, wins)
	req.Equal(joiners-1, used)

	stored, err := repository.Get("AB12CD")
	req.NoError(err)
	req.Equal(domain.InvitationAccepted, stored.Status)
	req.NotEmpty(stored.Joiner.ID)
}
