package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/report"
)

// ReportsHandler handles the read-only dashboard and statistics endpoints.
type ReportsHandler struct {
	service *report.Service
}

func NewReportsHandler(s *report.Service) *ReportsHandler {
	return &ReportsHandler{service: s}
}

// Dashboard handles GET /api/v1/dashboard.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(userID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusOK, dashboard)
}

// yearMonth reads year/month query parameters, defaulting to the current
// KST month.
func yearMonth(r *http.Request) (int, int, bool) {
	now := time.Now().In(dateutil.Seoul)
	year, month := now.Year(), int(now.Month())

	if s := r.URL.Query().Get("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, false
		}
		year = v
	}
	if s := r.URL.Query().Get("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 12 {
			return 0, 0, false
		}
		month = v
	}
	return year, month, true
}

// CategoryStats handles GET /api/v1/stats/categories?type=EXPENSE&year=&month=.
func (h *ReportsHandler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	typ := models.TxType(r.URL.Query().Get("type"))
	if typ == "" {
		typ = models.TxExpense
	}
	if !typ.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid transaction type")
		return
	}
	year, month, ok := yearMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid year or month")
		return
	}
	stats, err := h.service.MonthlyCategoryStats(userID(r), year, month, typ)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

// InvestmentTrend handles GET /api/v1/stats/investments?year=&month=.
func (h *ReportsHandler) InvestmentTrend(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid year or month")
		return
	}
	trend, err := h.service.InvestmentTrend(userID(r), year, month)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusOK, trend)
}

// dateRange reads optional from/to day parameters, normalizing to KST
// day keys.
func dateRange(r *http.Request) (from, to string, ok bool) {
	var err error
	if s := r.URL.Query().Get("from"); s != "" {
		if from, err = dateutil.ParseDay(s); err != nil {
			return "", "", false
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if to, err = dateutil.ParseDay(s); err != nil {
			return "", "", false
		}
	}
	return from, to, true
}

// BankAccountDetail handles GET /api/v1/bank-accounts/{id}.
func (h *ReportsHandler) BankAccountDetail(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid date; want YYYY-MM-DD")
		return
	}
	detail, err := h.service.BankAccountDetail(userID(r), chi.URLParam(r, "id"), from, to)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusOK, detail)
}

// CardDetail handles GET /api/v1/cards/{id}.
func (h *ReportsHandler) CardDetail(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid date; want YYYY-MM-DD")
		return
	}
	detail, err := h.service.CardDetail(userID(r), chi.URLParam(r, "id"), from, to)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusOK, detail)
}

// InvestmentDetail handles GET /api/v1/investment-accounts/{id}.
func (h *ReportsHandler) InvestmentDetail(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid date; want YYYY-MM-DD")
		return
	}
	detail, err := h.service.InvestmentDetail(userID(r), chi.URLParam(r, "id"), from, to)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusOK, detail)
}

// PaymentMethods handles GET /api/v1/options/payment-methods.
func (h *ReportsHandler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.PaymentMethods(userID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusOK, options)
}

// TransferTargets handles GET /api/v1/options/transfer-targets?exclude=.
func (h *ReportsHandler) TransferTargets(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.TransferTargets(userID(r), r.URL.Query().Get("exclude"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusOK, options)
}

// AllAssets handles GET /api/v1/assets.
func (h *ReportsHandler) AllAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.AllAssets(userID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusOK, assets)
}
