package memory

import (
	"context"
	"sync"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
)

// Store хранилище в памяти с теми же контрактами и ошибками, что и postgres-репозитории.
// Все операции выполняются под одним мьютексом, транзакции сериализуются целиком.
type Store struct {
	mu sync.Mutex

	users          map[int64]domain.User
	appointments   map[int64]domain.Appointment
	blocks         map[int64]domain.ScheduleBlock
	unavailability map[int64]domain.Unavailability

	nextAppointmentID    int64
	nextBlockID          int64
	nextUnavailabilityID int64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		users:          make(map[int64]domain.User),
		appointments:   make(map[int64]domain.Appointment),
		blocks:         make(map[int64]domain.ScheduleBlock),
		unavailability: make(map[int64]domain.Unavailability),
	}
}

// AddUser добавляет пользователя в справочник
func (s *Store) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// Appointments репозиторий записей
func (s *Store) Appointments() *AppointmentRepository {
	return &AppointmentRepository{store: s}
}

// Schedules репозиторий расписания
func (s *Store) Schedules() *ScheduleRepository {
	return &ScheduleRepository{store: s}
}

// Users справочник пользователей
func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

// TxManager менеджер транзакций хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

type snapshot struct {
	appointments   map[int64]domain.Appointment
	blocks         map[int64]domain.ScheduleBlock
	unavailability map[int64]domain.Unavailability

	nextAppointmentID    int64
	nextBlockID          int64
	nextUnavailabilityID int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		appointments:         make(map[int64]domain.Appointment, len(s.appointments)),
		blocks:               make(map[int64]domain.ScheduleBlock, len(s.blocks)),
		unavailability:       make(map[int64]domain.Unavailability, len(s.unavailability)),
		nextAppointmentID:    s.nextAppointmentID,
		nextBlockID:          s.nextBlockID,
		nextUnavailabilityID: s.nextUnavailabilityID,
	}
	for id, a := range s.appointments {
		snap.appointments[id] = a
	}
	for id, b := range s.blocks {
		snap.blocks[id] = b
	}
	for id, u := range s.unavailability {
		snap.unavailability[id] = u
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.appointments = snap.appointments
	s.blocks = snap.blocks
	s.unavailability = snap.unavailability
	s.nextAppointmentID = snap.nextAppointmentID
	s.nextBlockID = snap.nextBlockID
	s.nextUnavailabilityID = snap.nextUnavailabilityID
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lock захватывает мьютекс, если вызов не выполняется внутри транзакции хранилища
// (транзакция уже держит его). Возвращает функцию освобождения.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
