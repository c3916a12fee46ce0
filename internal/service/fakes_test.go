package service

// In-memory repository fakes shared by the service tests. DB() returns nil so
// runTx executes the callback without opening a real transaction.

import (
	"context"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/model"
	"github.com/AlexRayo/lcr-acopio/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── PrestamoRepository ───────────────────────────────────────────────────────

type fakePrestamoRepo struct {
	prestamos map[uuid.UUID]*model.Prestamo
	abonos    *fakeAbonoRepo
}

func newFakePrestamoRepo() *fakePrestamoRepo {
	return &fakePrestamoRepo{prestamos: make(map[uuid.UUID]*model.Prestamo)}
}

func (r *fakePrestamoRepo) Create(_ context.Context, p *model.Prestamo) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copia := *p
	r.prestamos[p.ID] = &copia
	return nil
}

func (r *fakePrestamoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Prestamo, error) {
	p, ok := r.prestamos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *fakePrestamoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Prestamo, error) {
	p, ok := r.prestamos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *fakePrestamoRepo) SaveTx(_ *gorm.DB, p *model.Prestamo) error {
	copia := *p
	r.prestamos[p.ID] = &copia
	return nil
}

func (r *fakePrestamoRepo) List(_ context.Context, proveedorID *uuid.UUID) ([]model.Prestamo, error) {
	var out []model.Prestamo
	for _, p := range r.prestamos {
		if proveedorID != nil && p.ProveedorID != *proveedorID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePrestamoRepo) CountAbonos(_ context.Context, id uuid.UUID) (int64, error) {
	if r.abonos == nil {
		return 0, nil
	}
	var n int64
	for _, a := range r.abonos.abonos {
		if a.PrestamoID == id {
			n++
		}
	}
	return n, nil
}

func (r *fakePrestamoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.prestamos, id)
	return nil
}

func (r *fakePrestamoRepo) DB() *gorm.DB { return nil }

// ── AbonoRepository ──────────────────────────────────────────────────────────

type fakeAbonoRepo struct {
	abonos map[uuid.UUID]*model.Abono
}

func newFakeAbonoRepo() *fakeAbonoRepo {
	return &fakeAbonoRepo{abonos: make(map[uuid.UUID]*model.Abono)}
}

func (r *fakeAbonoRepo) CreateTx(_ *gorm.DB, a *model.Abono) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	copia := *a
	r.abonos[a.ID] = &copia
	return nil
}

func (r *fakeAbonoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Abono, error) {
	a, ok := r.abonos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *a
	return &copia, nil
}

func (r *fakeAbonoRepo) ListByPrestamo(_ context.Context, prestamoID uuid.UUID) ([]model.Abono, error) {
	var out []model.Abono
	for _, a := range r.abonos {
		if a.PrestamoID == prestamoID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAbonoRepo) SaveTx(_ *gorm.DB, a *model.Abono) error {
	copia := *a
	r.abonos[a.ID] = &copia
	return nil
}

func (r *fakeAbonoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.abonos, id)
	return nil
}

func (r *fakeAbonoRepo) UltimaFechaEfectivaTx(_ *gorm.DB, prestamoID, excluir uuid.UUID) (*time.Time, error) {
	var ultima *time.Time
	for _, a := range r.abonos {
		if a.PrestamoID != prestamoID || a.ID == excluir {
			continue
		}
		fecha := a.FechaEfectiva()
		if ultima == nil || fecha.After(*ultima) {
			ultima = &fecha
		}
	}
	return ultima, nil
}

func (r *fakeAbonoRepo) DB() *gorm.DB { return nil }

// ── AlertaRepository ─────────────────────────────────────────────────────────

type fakeAlertaRepo struct {
	alertas []model.AlertaConciliacion
}

func (r *fakeAlertaRepo) CreateTx(_ *gorm.DB, a *model.AlertaConciliacion) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	r.alertas = append(r.alertas, *a)
	return nil
}

func (r *fakeAlertaRepo) List(_ context.Context, _, _ int) ([]model.AlertaConciliacion, int64, error) {
	return r.alertas, int64(len(r.alertas)), nil
}

// ── EntregaRepository ────────────────────────────────────────────────────────

type fakeEntregaRepo struct {
	entregas map[uuid.UUID]*model.Entrega
}

func newFakeEntregaRepo() *fakeEntregaRepo {
	return &fakeEntregaRepo{entregas: make(map[uuid.UUID]*model.Entrega)}
}

func (r *fakeEntregaRepo) Create(_ context.Context, e *model.Entrega) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	copia := *e
	r.entregas[e.ID] = &copia
	return nil
}

func (r *fakeEntregaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Entrega, error) {
	e, ok := r.entregas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *e
	return &copia, nil
}

func (r *fakeEntregaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Entrega, error) {
	return r.FindByID(context.Background(), id)
}

func (r *fakeEntregaRepo) SaveTx(_ *gorm.DB, e *model.Entrega) error {
	copia := *e
	r.entregas[e.ID] = &copia
	return nil
}

func (r *fakeEntregaRepo) List(_ context.Context, proveedorID *uuid.UUID, soloPendientes bool) ([]model.Entrega, error) {
	var out []model.Entrega
	for _, e := range r.entregas {
		if proveedorID != nil && e.ProveedorID != *proveedorID {
			continue
		}
		if soloPendientes && e.Liquidada {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEntregaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.entregas, id)
	return nil
}

func (r *fakeEntregaRepo) ResumenInventario(_ context.Context) ([]repository.ResumenInventario, error) {
	agrupado := make(map[string]*repository.ResumenInventario)
	for _, e := range r.entregas {
		if e.Liquidada {
			continue
		}
		clave := e.TipoCafe + "|" + e.Humedad.String()
		item, ok := agrupado[clave]
		if !ok {
			item = &repository.ResumenInventario{TipoCafe: e.TipoCafe, Humedad: e.Humedad}
			agrupado[clave] = item
		}
		item.CantidadSacos += e.CantidadSacos
		item.PesoNeto = item.PesoNeto.Add(e.PesoNeto)
	}
	out := make([]repository.ResumenInventario, 0, len(agrupado))
	for _, item := range agrupado {
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeEntregaRepo) DB() *gorm.DB { return nil }

// ── LiquidacionRepository ────────────────────────────────────────────────────

type fakeLiquidacionRepo struct {
	liquidaciones map[uuid.UUID]*model.Liquidacion
	detalles      []model.DetalleLiquidacion
	abonos        *fakeAbonoRepo

	// db, when set, is returned by DB() so runTx opens a real transaction
	// (sqlmock in the atomicity tests).
	db *gorm.DB
	// failOnDetalle forces CreateDetalleTx to fail, exercising rollback paths.
	failOnDetalle error
}

func newFakeLiquidacionRepo(abonos *fakeAbonoRepo) *fakeLiquidacionRepo {
	return &fakeLiquidacionRepo{
		liquidaciones: make(map[uuid.UUID]*model.Liquidacion),
		abonos:        abonos,
	}
}

func (r *fakeLiquidacionRepo) CreateTx(_ *gorm.DB, l *model.Liquidacion) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	copia := *l
	r.liquidaciones[l.ID] = &copia
	return nil
}

func (r *fakeLiquidacionRepo) CreateDetalleTx(_ *gorm.DB, d *model.DetalleLiquidacion) error {
	if r.failOnDetalle != nil {
		return r.failOnDetalle
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.detalles = append(r.detalles, *d)
	return nil
}

func (r *fakeLiquidacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Liquidacion, error) {
	l, ok := r.liquidaciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *l
	copia.Detalles = nil
	for _, d := range r.detalles {
		if d.LiquidacionID == id {
			copia.Detalles = append(copia.Detalles, d)
		}
	}
	copia.Abonos = nil
	if r.abonos != nil {
		for _, a := range r.abonos.abonos {
			if a.LiquidacionID != nil && *a.LiquidacionID == id {
				copia.Abonos = append(copia.Abonos, *a)
			}
		}
	}
	return &copia, nil
}

func (r *fakeLiquidacionRepo) Save(_ context.Context, l *model.Liquidacion) error {
	copia := *l
	r.liquidaciones[l.ID] = &copia
	return nil
}

func (r *fakeLiquidacionRepo) List(_ context.Context, _, _ int) ([]model.Liquidacion, int64, error) {
	var out []model.Liquidacion
	for _, l := range r.liquidaciones {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeLiquidacionRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.liquidaciones, id)
	return nil
}

func (r *fakeLiquidacionRepo) DeleteDetallesTx(_ *gorm.DB, liquidacionID uuid.UUID) error {
	restantes := r.detalles[:0]
	for _, d := range r.detalles {
		if d.LiquidacionID != liquidacionID {
			restantes = append(restantes, d)
		}
	}
	r.detalles = restantes
	return nil
}

func (r *fakeLiquidacionRepo) DB() *gorm.DB { return r.db }

// ── CajaRepository ───────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	movimientos map[uuid.UUID]*model.Caja

	// failOnDeleteReferencia forces DeleteByReferenciaTx to fail, exercising
	// rollback paths in the delete cascade.
	failOnDeleteReferencia error
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{movimientos: make(map[uuid.UUID]*model.Caja)}
}

func (r *fakeCajaRepo) Create(_ context.Context, c *model.Caja) error {
	return r.CreateTx(nil, c)
}

func (r *fakeCajaRepo) CreateTx(_ *gorm.DB, c *model.Caja) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	copia := *c
	r.movimientos[c.ID] = &copia
	return nil
}

func (r *fakeCajaRepo) FindByReferencia(_ context.Context, referencia uuid.UUID) (*model.Caja, error) {
	for _, c := range r.movimientos {
		if c.Referencia != nil && *c.Referencia == referencia {
			copia := *c
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCajaRepo) Save(_ context.Context, c *model.Caja) error {
	copia := *c
	r.movimientos[c.ID] = &copia
	return nil
}

func (r *fakeCajaRepo) DeleteByReferenciaTx(_ *gorm.DB, referencia uuid.UUID) error {
	if r.failOnDeleteReferencia != nil {
		return r.failOnDeleteReferencia
	}
	for id, c := range r.movimientos {
		if c.Referencia != nil && *c.Referencia == referencia {
			delete(r.movimientos, id)
		}
	}
	return nil
}

func (r *fakeCajaRepo) List(_ context.Context, _, _ int) ([]model.Caja, int64, error) {
	var out []model.Caja
	for _, c := range r.movimientos {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCajaRepo) Saldo(_ context.Context) (decimal.Decimal, error) {
	saldo := decimal.Zero
	for _, c := range r.movimientos {
		if c.Estado != model.CajaEstadoActivo {
			continue
		}
		if c.Tipo == model.CajaTipoEntrada {
			saldo = saldo.Add(c.Monto)
		} else {
			saldo = saldo.Sub(c.Monto)
		}
	}
	return saldo, nil
}

// ── ReciboRepository ─────────────────────────────────────────────────────────

type fakeReciboRepo struct {
	recibos map[uuid.UUID]*model.Recibo
}

func newFakeReciboRepo() *fakeReciboRepo {
	return &fakeReciboRepo{recibos: make(map[uuid.UUID]*model.Recibo)}
}

func (r *fakeReciboRepo) Create(_ context.Context, rec *model.Recibo) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	copia := *rec
	r.recibos[rec.ID] = &copia
	return nil
}

func (r *fakeReciboRepo) Update(_ context.Context, rec *model.Recibo) error {
	copia := *rec
	r.recibos[rec.ID] = &copia
	return nil
}

func (r *fakeReciboRepo) FindByLiquidacion(_ context.Context, liquidacionID uuid.UUID) (*model.Recibo, error) {
	for _, rec := range r.recibos {
		if rec.LiquidacionID == liquidacionID {
			copia := *rec
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReciboRepo) ListPendingRetries(_ context.Context, now time.Time, limit int) ([]model.Recibo, error) {
	var out []model.Recibo
	for _, rec := range r.recibos {
		if rec.Estado == model.ReciboEstadoError && rec.NextRetryAt != nil && !rec.NextRetryAt.After(now) {
			out = append(out, *rec)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// ── UsuarioRepository ────────────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	copia := *u
	r.usuarios[u.ID] = &copia
	return nil
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *u
	return &copia, nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			copia := *u
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Save(_ context.Context, u *model.Usuario) error {
	copia := *u
	r.usuarios[u.ID] = &copia
	return nil
}

// ── ProveedorRepository ──────────────────────────────────────────────────────

type fakeProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newFakeProveedorRepo() *fakeProveedorRepo {
	return &fakeProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *fakeProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copia := *p
	r.proveedores[p.ID] = &copia
	return nil
}

func (r *fakeProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *fakeProveedorRepo) FindByCedula(_ context.Context, cedula string) (*model.Proveedor, error) {
	for _, p := range r.proveedores {
		if p.Cedula == cedula {
			copia := *p
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProveedorRepo) List(_ context.Context, soloActivos bool) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		if soloActivos && !p.Activo {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProveedorRepo) Save(_ context.Context, p *model.Proveedor) error {
	copia := *p
	r.proveedores[p.ID] = &copia
	return nil
}
