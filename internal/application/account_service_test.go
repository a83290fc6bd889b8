package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rentwheels/service-rental/internal/auth"
	"github.com/rentwheels/service-rental/internal/domain"
	accountDomain "github.com/rentwheels/service-rental/internal/domain/account"
	bookingDomain "github.com/rentwheels/service-rental/internal/domain/booking"
)

type accountFixture struct {
	service  *AccountService
	accounts *fakeAccountRepo
	bookings *fakeBookingRepo
	jwt      *auth.JWTManager
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	vehicles := newFakeVehicleRepo()
	accounts := newFakeAccountRepo()
	bookings := newFakeBookingRepo(vehicles, accounts)
	tx := &fakeTransactor{stores: []snapshotter{vehicles, accounts, bookings}}
	jwtManager := auth.NewJWTManager("test-secret")

	return &accountFixture{
		service:  NewAccountService(accounts, bookings, tx, jwtManager, zap.NewNop()),
		accounts: accounts,
		bookings: bookings,
		jwt:      jwtManager,
	}
}

func signUpReq() SignUpRequest {
	return SignUpRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "s3cret",
		Phone:    "+60123456789",
		Role:     "customer",
	}
}

func TestSignUp(t *testing.T) {
	t.Run("stores a hashed credential and a lower-cased email", func(t *testing.T) {
		f := newAccountFixture(t)

		dto, err := f.service.SignUp(context.Background(), signUpReq())
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", dto.Email)

		stored, err := f.accounts.FindByID(context.Background(), dto.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "s3cret", stored.PasswordHash())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash()), []byte("s3cret")))
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		f := newAccountFixture(t)
		req := signUpReq()
		req.Role = "manager"

		_, err := f.service.SignUp(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		f := newAccountFixture(t)
		_, err := f.service.SignUp(context.Background(), signUpReq())
		require.NoError(t, err)

		req := signUpReq()
		req.Email = "ALICE@example.com"
		_, err = f.service.SignUp(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})
}

func TestSignIn(t *testing.T) {
	t.Run("issues a verifiable session token", func(t *testing.T) {
		f := newAccountFixture(t)
		dto, err := f.service.SignUp(context.Background(), signUpReq())
		require.NoError(t, err)

		result, err := f.service.SignIn(context.Background(), SignInRequest{
			Email:    "alice@example.com",
			Password: "s3cret",
		})
		require.NoError(t, err)
		assert.Equal(t, dto.ID, result.User.ID)

		gotID, gotRole, err := f.jwt.Verify(result.Token)
		require.NoError(t, err)
		assert.Equal(t, dto.ID, gotID)
		assert.Equal(t, accountDomain.RoleCustomer, gotRole)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		f := newAccountFixture(t)
		_, err := f.service.SignUp(context.Background(), signUpReq())
		require.NoError(t, err)

		_, err = f.service.SignIn(context.Background(), SignInRequest{
			Email:    "alice@example.com",
			Password: "wrong",
		})
		require.Error(t, err)
		assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	})

	t.Run("reports an unknown email as not found", func(t *testing.T) {
		f := newAccountFixture(t)

		_, err := f.service.SignIn(context.Background(), SignInRequest{
			Email:    "nobody@example.com",
			Password: "s3cret",
		})
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestUpdateAccount(t *testing.T) {
	f := newAccountFixture(t)
	dto, err := f.service.SignUp(context.Background(), signUpReq())
	require.NoError(t, err)

	updated, err := f.service.UpdateAccount(context.Background(), dto.ID, UpdateAccountRequest{
		Name:  "Alice B",
		Email: "Alice.B@Example.com",
		Phone: "+60100000000",
		Role:  "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice.b@example.com", updated.Email)
	assert.Equal(t, "admin", updated.Role)

	stored, err := f.accounts.FindByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash()), []byte("s3cret")))
}

func TestDeleteAccount(t *testing.T) {
	t.Run("deletes an account with no bookings", func(t *testing.T) {
		f := newAccountFixture(t)
		dto, err := f.service.SignUp(context.Background(), signUpReq())
		require.NoError(t, err)

		require.NoError(t, f.service.DeleteAccount(context.Background(), dto.ID))
		_, err = f.accounts.FindByID(context.Background(), dto.ID)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("refuses to delete an account with an active booking", func(t *testing.T) {
		f := newAccountFixture(t)
		dto, err := f.service.SignUp(context.Background(), signUpReq())
		require.NoError(t, err)

		bk, err := bookingDomain.NewBooking(dto.ID, uuid.New(), mustDate("2025-06-01"), mustDate("2025-06-04"), 300)
		require.NoError(t, err)
		require.NoError(t, f.bookings.Save(context.Background(), bk))

		err = f.service.DeleteAccount(context.Background(), dto.ID)
		require.Error(t, err)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))

		_, err = f.accounts.FindByID(context.Background(), dto.ID)
		assert.NoError(t, err)
	})

	t.Run("deletes an account once its bookings are terminal", func(t *testing.T) {
		f := newAccountFixture(t)
		dto, err := f.service.SignUp(context.Background(), signUpReq())
		require.NoError(t, err)

		bk, err := bookingDomain.NewBooking(dto.ID, uuid.New(), mustDate("2025-06-01"), mustDate("2025-06-04"), 300)
		require.NoError(t, err)
		require.NoError(t, bk.Cancel())
		require.NoError(t, f.bookings.Save(context.Background(), bk))

		assert.NoError(t, f.service.DeleteAccount(context.Background(), dto.ID))
	})
}
