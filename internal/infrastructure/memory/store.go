// Package memory implementa los puertos de persistencia en memoria con transacciones
// serializadas: cada transacción trabaja sobre una copia del estado y solo la publica
// al hacer commit. Sirve para desarrollo local (STORAGE_DRIVER=memory) y para los tests.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// state las entradas de los mapas no se modifican en sitio: cada escritura guarda una copia
// nueva, por eso clone solo copia los mapas.
type state struct {
	products      map[string]*entity.Product
	suppliers     map[string]*entity.Supplier
	units         map[string]*entity.ProductUnit
	requests      map[string]*entity.Request
	requestItems  map[string]*entity.RequestItem
	deliveries    map[string]*entity.Delivery
	deliveryItems map[string]*entity.DeliveryItem
}

func newState() state {
	return state{
		products:      map[string]*entity.Product{},
		suppliers:     map[string]*entity.Supplier{},
		units:         map[string]*entity.ProductUnit{},
		requests:      map[string]*entity.Request{},
		requestItems:  map[string]*entity.RequestItem{},
		deliveries:    map[string]*entity.Delivery{},
		deliveryItems: map[string]*entity.DeliveryItem{},
	}
}

func (s state) clone() state {
	return state{
		products:      cloneMap(s.products),
		suppliers:     cloneMap(s.suppliers),
		units:         cloneMap(s.units),
		requests:      cloneMap(s.requests),
		requestItems:  cloneMap(s.requestItems),
		deliveries:    cloneMap(s.deliveries),
		deliveryItems: cloneMap(s.deliveryItems),
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// access abstrae dónde operan los repositorios: el estado publicado del Store
// (cada llamada es su propia transacción) o la copia de una transacción en curso.
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store almacén en memoria. Run serializa las transacciones con un mutex.
type Store struct {
	mu    sync.RWMutex
	state state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.state)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn inventory.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{state: s.state.clone()}
	if err := fn(
		NewUnitRepository(tx),
		NewRequestRepository(tx),
		NewDeliveryRepository(tx),
		NewProductRepository(tx),
	); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// Readers repositorios sobre el estado publicado.
func (s *Store) Readers() inventory.Readers {
	return inventory.Readers{
		Units:      NewUnitRepository(s),
		Requests:   NewRequestRepository(s),
		Deliveries: NewDeliveryRepository(s),
		Products:   NewProductRepository(s),
		Suppliers:  NewSupplierRepository(s),
	}
}

// txState copia privada de una transacción; el mutex del Store ya está tomado.
type txState struct {
	state state
}

func (t *txState) read(fn func(st *state) error) error  { return fn(&t.state) }
func (t *txState) write(fn func(st *state) error) error { return fn(&t.state) }
