package application

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rentwheels/service-rental/internal/domain"
	accountDomain "github.com/rentwheels/service-rental/internal/domain/account"
	bookingDomain "github.com/rentwheels/service-rental/internal/domain/booking"
	vehicleDomain "github.com/rentwheels/service-rental/internal/domain/vehicle"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// snapshotter lets the fake transactor roll stores back on error.
type snapshotter interface {
	snapshot() func()
}

// fakeTransactor runs the unit of work against in-memory stores, restoring
// their pre-transaction state when the callback fails.
type fakeTransactor struct {
	stores []snapshotter
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), len(t.stores))
	for i, s := range t.stores {
		restores[i] = s.snapshot()
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	EventType string
	Key       string
}

func (p *fakePublisher) Publish(_ context.Context, eventType, key string, _ interface{}) error {
	p.events = append(p.events, publishedEvent{EventType: eventType, Key: key})
	return nil
}

// --- vehicle store ---

type fakeVehicleRepo struct {
	vehicles   map[uuid.UUID]*vehicleDomain.Vehicle
	failUpdate bool
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[uuid.UUID]*vehicleDomain.Vehicle)}
}

func (r *fakeVehicleRepo) snapshot() func() {
	saved := make(map[uuid.UUID]*vehicleDomain.Vehicle, len(r.vehicles))
	for k, v := range r.vehicles {
		saved[k] = v
	}
	return func() { r.vehicles = saved }
}

func copyVehicle(v *vehicleDomain.Vehicle) *vehicleDomain.Vehicle {
	return vehicleDomain.Reconstruct(v.ID(), v.Name(), v.VehicleType(), v.RegistrationNumber(), v.DailyRentPrice(), v.Availability())
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domain.NewNotFoundError("Vehicle", id.String())
	}
	return copyVehicle(v), nil
}

func (r *fakeVehicleRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeVehicleRepo) ListAll(_ context.Context) ([]*vehicleDomain.Vehicle, error) {
	out := make([]*vehicleDomain.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, copyVehicle(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().String() < out[j].ID().String() })
	return out, nil
}

func (r *fakeVehicleRepo) Save(_ context.Context, v *vehicleDomain.Vehicle) error {
	for _, existing := range r.vehicles {
		if existing.RegistrationNumber() == v.RegistrationNumber() {
			return domain.NewConflictError("registration number already exists")
		}
	}
	r.vehicles[v.ID()] = copyVehicle(v)
	return nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *vehicleDomain.Vehicle) error {
	if r.failUpdate {
		return domain.NewConflictError("update failed")
	}
	if _, ok := r.vehicles[v.ID()]; !ok {
		return domain.NewNotFoundError("Vehicle", v.ID().String())
	}
	r.vehicles[v.ID()] = copyVehicle(v)
	return nil
}

func (r *fakeVehicleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.vehicles[id]; !ok {
		return domain.NewNotFoundError("Vehicle", id.String())
	}
	delete(r.vehicles, id)
	return nil
}

// --- account store ---

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*accountDomain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*accountDomain.Account)}
}

func (r *fakeAccountRepo) snapshot() func() {
	saved := make(map[uuid.UUID]*accountDomain.Account, len(r.accounts))
	for k, v := range r.accounts {
		saved[k] = v
	}
	return func() { r.accounts = saved }
}

func copyAccount(a *accountDomain.Account) *accountDomain.Account {
	return accountDomain.Reconstruct(a.ID(), a.Name(), a.Email(), a.PasswordHash(), a.Phone(), a.Role())
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*accountDomain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return copyAccount(a), nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*accountDomain.Account, error) {
	email = accountDomain.NormalizeEmail(email)
	for _, a := range r.accounts {
		if a.Email() == email {
			return copyAccount(a), nil
		}
	}
	return nil, domain.NewNotFoundError("User", email)
}

func (r *fakeAccountRepo) ListAll(_ context.Context) ([]*accountDomain.Account, error) {
	out := make([]*accountDomain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, copyAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().String() < out[j].ID().String() })
	return out, nil
}

func (r *fakeAccountRepo) Save(_ context.Context, a *accountDomain.Account) error {
	for _, existing := range r.accounts {
		if existing.Email() == a.Email() {
			return domain.NewConflictError("email already registered")
		}
	}
	r.accounts[a.ID()] = copyAccount(a)
	return nil
}

func (r *fakeAccountRepo) Update(_ context.Context, a *accountDomain.Account) error {
	if _, ok := r.accounts[a.ID()]; !ok {
		return domain.NewNotFoundError("User", a.ID().String())
	}
	r.accounts[a.ID()] = copyAccount(a)
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.accounts[id]; !ok {
		return domain.NewNotFoundError("User", id.String())
	}
	delete(r.accounts, id)
	return nil
}

// --- booking store ---

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*bookingDomain.Booking
	vehicles *fakeVehicleRepo
	accounts *fakeAccountRepo
}

func newFakeBookingRepo(vehicles *fakeVehicleRepo, accounts *fakeAccountRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*bookingDomain.Booking),
		vehicles: vehicles,
		accounts: accounts,
	}
}

func (r *fakeBookingRepo) snapshot() func() {
	saved := make(map[uuid.UUID]*bookingDomain.Booking, len(r.bookings))
	for k, v := range r.bookings {
		saved[k] = v
	}
	return func() { r.bookings = saved }
}

func copyBooking(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(b.ID(), b.CustomerID(), b.VehicleID(), b.RentStart(), b.RentEnd(), b.TotalPrice(), b.Status())
}

func (r *fakeBookingRepo) FindByIDScoped(_ context.Context, id uuid.UUID, scope bookingDomain.VisibilityScope) (*bookingDomain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	if !scope.Unrestricted() && !b.IsOwnedBy(scope.CustomerID()) {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) FindByIDScopedForUpdate(ctx context.Context, id uuid.UUID, scope bookingDomain.VisibilityScope) (*bookingDomain.Booking, error) {
	return r.FindByIDScoped(ctx, id, scope)
}

func (r *fakeBookingRepo) ListDetailed(_ context.Context, scope bookingDomain.VisibilityScope) ([]bookingDomain.Details, error) {
	out := make([]bookingDomain.Details, 0, len(r.bookings))
	for _, b := range r.bookings {
		if !scope.Unrestricted() && !b.IsOwnedBy(scope.CustomerID()) {
			continue
		}
		d := bookingDomain.Details{Booking: copyBooking(b)}
		if v, ok := r.vehicles.vehicles[b.VehicleID()]; ok {
			d.VehicleName = v.Name()
			d.RegistrationNumber = v.RegistrationNumber()
			d.VehicleType = v.VehicleType()
		}
		if a, ok := r.accounts.accounts[b.CustomerID()]; ok {
			d.CustomerName = a.Name()
			d.CustomerEmail = a.Email()
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Booking.ID().String() < out[j].Booking.ID().String()
	})
	return out, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	for _, existing := range r.bookings {
		if existing.VehicleID() == b.VehicleID() && existing.Status() == bookingDomain.StatusActive {
			return domain.NewConflictError("vehicle already has an active booking")
		}
	}
	r.bookings[b.ID()] = copyBooking(b)
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	if _, ok := r.bookings[b.ID()]; !ok {
		return domain.NewNotFoundError("Booking", b.ID().String())
	}
	r.bookings[b.ID()] = copyBooking(b)
	return nil
}

func (r *fakeBookingRepo) ExistsBlockingForVehicle(_ context.Context, vehicleID uuid.UUID) (bool, error) {
	for _, b := range r.bookings {
		if b.VehicleID() == vehicleID && !b.Status().IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) ExistsBlockingForCustomer(_ context.Context, customerID uuid.UUID) (bool, error) {
	for _, b := range r.bookings {
		if b.CustomerID() == customerID && !b.Status().IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}
