package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pettycashapp "github.com/sitecost/backend/internal/application/pettycash"
)

// PettyCashHandler handles petty cash ledger API endpoints
type PettyCashHandler struct {
	BaseHandler
	ledgerService *pettycashapp.LedgerService
}

// NewPettyCashHandler creates a new PettyCashHandler
func NewPettyCashHandler(ledgerService *pettycashapp.LedgerService) *PettyCashHandler {
	return &PettyCashHandler{
		ledgerService: ledgerService,
	}
}

// AppendTransaction appends a manual entry to an employee's ledger.
// Backdated entries are inserted at their chronological position and
// every later entry's running balance is recomputed.
func (h *PettyCashHandler) AppendTransaction(c *gin.Context) {
	var req pettycashapp.AppendTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.ledgerService.AppendTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tx)
}

// GetTransaction retrieves a single ledger entry by its ID
func (h *PettyCashHandler) GetTransaction(c *gin.Context) {
	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	tx, err := h.ledgerService.GetTransaction(c.Request.Context(), txID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tx)
}

// RemoveTransaction removes a manual ledger entry. Entries after the
// removed one have their running balances recomputed.
func (h *PettyCashHandler) RemoveTransaction(c *gin.Context) {
	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	if err := h.ledgerService.RemoveTransaction(c.Request.Context(), txID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListTransactions retrieves an employee's ledger entries in reverse
// chronological order
func (h *PettyCashHandler) ListTransactions(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	var filter pettycashapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	transactions, total, err := h.ledgerService.ListTransactions(c.Request.Context(), employeeID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}

// GetBalance retrieves an employee's current petty cash position
func (h *PettyCashHandler) GetBalance(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	balance, err := h.ledgerService.GetEmployeeBalance(c.Request.Context(), employeeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balance)
}

// ListBalances retrieves the petty cash position of every employee with
// ledger activity
func (h *PettyCashHandler) ListBalances(c *gin.Context) {
	balances, err := h.ledgerService.ListBalances(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balances)
}
