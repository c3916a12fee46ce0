package service

import (
	"errors"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/shopspring/decimal"
)

var (
	// ErrPrestamoNoEncontrado is returned by the calculation paths, which fail
	// hard on a missing loan. The ledger mutations in PrestamoService instead
	// tolerate it (warn + alerta).
	ErrPrestamoNoEncontrado = errors.New("prestamo no encontrado")

	// ErrRangoFechasInvalido rejects a cut-off date earlier than the loan's
	// reference date instead of producing a negative interest figure.
	ErrRangoFechasInvalido = errors.New("la fecha de corte es anterior a la fecha de referencia del prestamo")
)

var (
	cien          = decimal.NewFromInt(100)
	anioComercial = decimal.NewFromInt(360)
)

// CorteInteres is the accrued interest of a loan at a cut-off date.
type CorteInteres struct {
	Dias      int
	Intereses decimal.Decimal
}

// ParticionAbono is the interest/principal split of a payment amount.
type ParticionAbono struct {
	Dias         int
	Intereses    decimal.Decimal
	AbonoCapital decimal.Decimal
}

// CalcularInteres computes commercial interest accrued between the loan's
// reference date (last payment, or disbursement when none) and fecha:
//
//	monto * interes% / 360 * dias
//
// using the 360-day year convention of the legacy ledger, rounded to 2
// decimals (half away from zero). Days are whole elapsed days.
func CalcularInteres(p *model.Prestamo, fecha time.Time) (CorteInteres, error) {
	ref := p.FechaReferencia()
	if fecha.Before(ref) {
		return CorteInteres{}, ErrRangoFechasInvalido
	}
	dias := int(fecha.Sub(ref).Hours() / 24)
	intereses := p.Monto.
		Mul(p.Interes).
		Div(cien).
		Div(anioComercial).
		Mul(decimal.NewFromInt(int64(dias))).
		Round(2)
	return CorteInteres{Dias: dias, Intereses: intereses}, nil
}

// DividirAbono splits a payment amount into interest and principal. The
// principal portion is monto - intereses and keeps its sign: a payment that
// does not even cover accrued interest yields a negative abono_capital, and
// the caller decides whether to accept it. Pure, no ledger side effects.
func DividirAbono(p *model.Prestamo, monto decimal.Decimal, fecha time.Time) (ParticionAbono, error) {
	corte, err := CalcularInteres(p, fecha)
	if err != nil {
		return ParticionAbono{}, err
	}
	return ParticionAbono{
		Dias:         corte.Dias,
		Intereses:    corte.Intereses,
		AbonoCapital: monto.Sub(corte.Intereses).Round(2),
	}, nil
}
