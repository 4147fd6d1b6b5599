package validation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
)

// TransactionItemInput valores del formulario de una transacción más el contexto del stock.
type TransactionItemInput struct {
	Type          entity.TransactionType
	ChangeQty     decimal.Decimal
	OpenVialQty   decimal.Decimal
	CloseVialQty  decimal.Decimal
	ReasonID      *int64
	ReasonIsOther bool
	OtherReason   string
	StatusID      *int64

	// Contexto (material + snapshot del stock).
	Available      decimal.Decimal
	PackagingUnit  decimal.Decimal
	IsOpenVial     bool
	TrackStatus    bool
	MaxOpenVialQty decimal.Decimal
}

// ValidateTransactionItem aplica las reglas de una línea de transacción.
func ValidateTransactionItem(in TransactionItemInput) Errors {
	var errs Errors
	if !in.Type.Valid() {
		errs.Add(newError("transaction_type", CodeInvalid, nil))
		return errs
	}

	errs.Add(NonNegative("change_qty", in.ChangeQty))
	errs.Add(NonNegative("open_vial_qty", in.OpenVialQty))
	errs.Add(NonNegative("close_vial_qty", in.CloseVialQty))

	active := []decimal.Decimal{in.ChangeQty, in.OpenVialQty, in.CloseVialQty}
	if !anyNonZero(active...) {
		errs.Add(Required("change_qty", false))
		return errs
	}

	if in.Type.RequiresReason() {
		errs.Add(RequiredIfActive("transaction_reason_id", in.ReasonID != nil, active...))
		if in.ReasonIsOther {
			errs.Add(RequiredIfActive("other_reason", in.OtherReason != "", active...))
		}
	}
	if in.TrackStatus {
		errs.Add(RequiredIfActive("material_status", in.StatusID != nil, active...))
	}

	errs.Add(MultipleOfUnit("change_qty", in.ChangeQty, in.PackagingUnit))
	errs.Add(MaxAvailable("change_qty", in.ChangeQty, in.Available, in.Type))

	if in.IsOpenVial && in.Type == entity.TransactionDiscard {
		errs.Add(VialExactMatch("open_vial_qty", in.OpenVialQty, in.MaxOpenVialQty))
	}
	return errs
}

// DisposalStockInput bucket (stock, motivo) a disponer frente a lo pendiente en ese stock.
type DisposalStockInput struct {
	DiscardQty        decimal.Decimal
	ReceivedQty       decimal.Decimal
	AvailableDiscard  decimal.Decimal
	AvailableReceived decimal.Decimal
	PackagingUnit     decimal.Decimal
}

// ValidateDisposalStock reglas de un bucket de disposición.
func ValidateDisposalStock(in DisposalStockInput) Errors {
	var errs Errors
	errs.Add(NonNegative("discard_qty", in.DiscardQty))
	errs.Add(NonNegative("received_qty", in.ReceivedQty))
	errs.Add(MultipleOfUnit("discard_qty", in.DiscardQty, in.PackagingUnit))
	errs.Add(MultipleOfUnit("received_qty", in.ReceivedQty, in.PackagingUnit))
	errs.Add(NotExceeding("discard_qty", in.DiscardQty, in.AvailableDiscard))
	errs.Add(NotExceeding("received_qty", in.ReceivedQty, in.AvailableReceived))
	return errs
}

// AllocationInput cantidad asignada desde un stock del proveedor.
type AllocationInput struct {
	Qty           decimal.Decimal
	Available     decimal.Decimal
	PackagingUnit decimal.Decimal
}

// ValidateAllocation reglas de una asignación.
func ValidateAllocation(in AllocationInput) Errors {
	var errs Errors
	errs.Add(NonNegative("allocated_qty", in.Qty))
	errs.Add(MultipleOfUnit("allocated_qty", in.Qty, in.PackagingUnit))
	errs.Add(NotExceeding("allocated_qty", in.Qty, in.Available))
	return errs
}

// ConfirmedTotal: la suma asignada debe coincidir con la cantidad confirmada del ítem.
func ConfirmedTotal(field string, allocated, confirmed decimal.Decimal) *FieldError {
	if allocated.Equal(confirmed) {
		return nil
	}
	return newError(field, CodeNotEqual, map[string]any{"expected": confirmed.String()})
}
