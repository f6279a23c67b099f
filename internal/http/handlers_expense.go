package http

import (
	"net/http"
	"strconv"

	"fintrack/internal/ledger"
)

// expenseRequest is the wire form of an expense record's mutable fields.
// Amounts and descriptions are taken as-is; the contract is permissive.
type expenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Saving      float64 `json:"saving"`
	Date        string  `json:"date"`
}

func (req expenseRequest) toInput() (ledger.RecordInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return ledger.RecordInput{}, err
	}
	return ledger.RecordInput{
		Description: req.Description,
		Amount:      req.Amount,
		Saving:      req.Saving,
		Date:        date,
	}, nil
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account, err := s.ledger.Get(r.Context(), r.PathValue("username"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgValidation)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgValidation)
		return
	}

	if _, err := s.ledger.Add(r.Context(), r.PathValue("username"), in); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, msgExpenseLogged)
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgValidation)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgValidation)
		return
	}

	username := r.PathValue("username")
	expenseID := r.PathValue("expenseId")
	if err := s.ledger.Edit(r.Context(), username, expenseID, in); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, msgExpenseUpdated)
}

func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	expenseID := r.PathValue("expenseId")

	if err := s.ledger.Remove(r.Context(), username, expenseID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, msgExpenseRemoved)
}

// handleMonthExpenses returns the account's records for one calendar month.
// The month path segment is 1-based; values outside 1-12 match nothing and
// yield an empty array rather than an error.
func (s *Server) handleMonthExpenses(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgValidation)
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgValidation)
		return
	}

	records, err := s.ledger.QueryMonth(r.Context(), r.PathValue("username"), year, month)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
