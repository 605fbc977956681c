package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type balanceKey struct {
	productID  string
	locationID string
}

// state es la foto completa de datos. Cada transacción trabaja sobre una copia.
type state struct {
	balances  map[balanceKey]*entity.LocationBalance
	movements []*entity.StockMovement

	inbounds           map[string]*entity.Inbound
	inboundLines       map[string]*entity.InboundLine
	inboundAssignments map[string]*entity.InboundSortAssignment

	outbounds           map[string]*entity.Outbound
	outboundLines       map[string]*entity.OutboundLine
	outboundAssignments map[string]*entity.OutboundSupplyAssignment

	cycleCounts map[string]*entity.CycleCount
	differences map[string]*entity.CycleCountDifference
}

func newState() *state {
	return &state{
		balances:            map[balanceKey]*entity.LocationBalance{},
		inbounds:            map[string]*entity.Inbound{},
		inboundLines:        map[string]*entity.InboundLine{},
		inboundAssignments:  map[string]*entity.InboundSortAssignment{},
		outbounds:           map[string]*entity.Outbound{},
		outboundLines:       map[string]*entity.OutboundLine{},
		outboundAssignments: map[string]*entity.OutboundSupplyAssignment{},
		cycleCounts:         map[string]*entity.CycleCount{},
		differences:         map[string]*entity.CycleCountDifference{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.balances {
		b := *v
		c.balances[k] = &b
	}
	// Los movimientos son inmutables: basta copiar el slice.
	c.movements = append(make([]*entity.StockMovement, 0, len(s.movements)+8), s.movements...)
	for k, v := range s.inbounds {
		c.inbounds[k] = copyInbound(v)
	}
	for k, v := range s.inboundLines {
		c.inboundLines[k] = copyInboundLine(v)
	}
	for k, v := range s.inboundAssignments {
		a := *v
		c.inboundAssignments[k] = &a
	}
	for k, v := range s.outbounds {
		o := *v
		c.outbounds[k] = &o
	}
	for k, v := range s.outboundLines {
		l := *v
		c.outboundLines[k] = &l
	}
	for k, v := range s.outboundAssignments {
		c.outboundAssignments[k] = copySupply(v)
	}
	for k, v := range s.cycleCounts {
		c.cycleCounts[k] = copyCycleCount(v)
	}
	for k, v := range s.differences {
		c.differences[k] = copyDifference(v)
	}
	return c
}

func (s *state) repos() repository.Repos {
	return repository.Repos{
		Balances:    &balanceRepo{st: s},
		Movements:   &movementRepo{st: s},
		Inbound:     &inboundRepo{st: s},
		Outbound:    &outboundRepo{st: s},
		CycleCounts: &cycleCountRepo{st: s},
	}
}

// Store backend en memoria del motor. Serializa las transacciones con un mutex y
// publica la copia de trabajo sólo si fn termina sin error (todo o nada).
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run implementa inventory.TxRunner. Cada llamada, aun de sólo lectura, clona el estado
// completo (O(filas)); el rollback es descartar la copia.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(ctx, work.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func copyInbound(v *entity.Inbound) *entity.Inbound {
	i := *v
	return &i
}

func copyInboundLine(v *entity.InboundLine) *entity.InboundLine {
	l := *v
	if v.ActualQuantity != nil {
		q := *v.ActualQuantity
		l.ActualQuantity = &q
	}
	return &l
}

func copySupply(v *entity.OutboundSupplyAssignment) *entity.OutboundSupplyAssignment {
	a := *v
	if v.DeletedAt != nil {
		t := *v.DeletedAt
		a.DeletedAt = &t
	}
	return &a
}

func copyCycleCount(v *entity.CycleCount) *entity.CycleCount {
	c := *v
	if v.ClosedAt != nil {
		t := *v.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}

func copyDifference(v *entity.CycleCountDifference) *entity.CycleCountDifference {
	d := *v
	if v.AppliedQuantity != nil {
		q := *v.AppliedQuantity
		d.AppliedQuantity = &q
	}
	return &d
}
