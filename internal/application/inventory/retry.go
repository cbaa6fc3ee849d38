package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

// maxTxAttempts intentos ante contención transitoria (bloqueos, serialización, serial duplicado en lote).
const maxTxAttempts = 3

// runTx ejecuta fn en una transacción y la reintenta solo ante domain.ErrConcurrentUpdate.
// Los errores de reglas de negocio nunca se reintentan.
func runTx(ctx context.Context, runner TxRunner, fn TxFunc) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = runner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConcurrentUpdate) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
