package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/donation-ledger/internal/audit"
	"github.com/sheikh-saqib/donation-ledger/internal/config"
	"github.com/sheikh-saqib/donation-ledger/internal/contract"
	kafkaevents "github.com/sheikh-saqib/donation-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/donation-ledger/internal/interfaces"
	"github.com/sheikh-saqib/donation-ledger/internal/models"
	"github.com/sheikh-saqib/donation-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/donation-ledger/internal/storage/postgres"
)

// logTreasury stands in for the payment rail: it acknowledges every
// outbound transfer and logs it. A real deployment swaps in a treasury
// that actually moves value.
type logTreasury struct{}

func (logTreasury) Transfer(ctx context.Context, to models.Principal, amount decimal.Decimal) error {
	log.Printf("treasury: transferred %s to %s", amount, to)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var (
		auditStore interfaces.AuditStore
		stateStore interfaces.StateStore
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Fatal(err)
		}
		pgAudit := postgres.NewAuditStore(db)
		pgState := postgres.NewStateStore(db)
		if err := pgAudit.EnsureSchema(ctx); err != nil {
			log.Fatal(err)
		}
		if err := pgState.EnsureSchema(ctx); err != nil {
			log.Fatal(err)
		}
		auditStore, stateStore = pgAudit, pgState
	} else {
		auditStore, stateStore = memory.NewAuditStore(), memory.NewStateStore()
	}

	trailOpts := []audit.Option{
		audit.WithPublishErrorHandler(func(err error) {
			log.Printf("audit notification dropped: %v", err)
		}),
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafkaevents.NewPublisher(cfg.KafkaBrokers)
		defer publisher.Close()
		trailOpts = append(trailOpts, audit.WithPublisher(publisher, cfg.KafkaTopic))
	}
	trail, err := audit.NewTrail(auditStore, trailOpts...)
	if err != nil {
		log.Fatal(err)
	}

	var ledger *contract.Contract
	snapshot, found, err := stateStore.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if found {
		ledger, err = contract.FromSnapshot(snapshot, logTreasury{}, trail, contract.WithStateStore(stateStore))
	} else {
		ledger, err = contract.New(models.Principal(cfg.OwnerPrincipal), logTreasury{}, trail, contract.WithStateStore(stateStore))
	}
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Starting server on " + cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, newMux(ledger, trail)))
}

func newMux(ledger *contract.Contract, trail *audit.Trail) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("POST /managers", func(w http.ResponseWriter, r *http.Request) {
		target, ok := decodePrincipalBody(w, r)
		if !ok {
			return
		}
		if err := ledger.AddManager(r.Context(), caller(r), target); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "manager added"})
	})

	mux.HandleFunc("DELETE /managers/{principal}", func(w http.ResponseWriter, r *http.Request) {
		target := models.Principal(r.PathValue("principal"))
		if err := ledger.RemoveManager(r.Context(), caller(r), target); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "manager removed"})
	})

	mux.HandleFunc("GET /managers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"owner":    ledger.Owner(),
			"managers": ledger.Managers(),
		})
	})

	mux.HandleFunc("POST /beneficiaries", func(w http.ResponseWriter, r *http.Request) {
		target, ok := decodePrincipalBody(w, r)
		if !ok {
			return
		}
		if err := ledger.Register(r.Context(), caller(r), target); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "beneficiary registered"})
	})

	mux.HandleFunc("DELETE /beneficiaries/{principal}", func(w http.ResponseWriter, r *http.Request) {
		target := models.Principal(r.PathValue("principal"))
		if err := ledger.RemoveBeneficiary(r.Context(), caller(r), target); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "beneficiary removed"})
	})

	mux.HandleFunc("GET /beneficiaries", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"beneficiaries": ledger.Beneficiaries(),
			"count":         ledger.BeneficiaryCount(),
		})
	})

	mux.HandleFunc("POST /donations", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Amount decimal.Decimal `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := ledger.Donate(r.Context(), caller(r), req.Amount); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"status":    "donation distributed",
			"reference": uuid.New().String(),
		})
	})

	// the bare value-arrival path: preconditions that Donate rejects
	// are silently absorbed into the custody pool here
	mux.HandleFunc("POST /transfers", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Amount decimal.Decimal `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := ledger.Receive(r.Context(), caller(r), req.Amount); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "value accepted"})
	})

	mux.HandleFunc("POST /withdrawals", func(w http.ResponseWriter, r *http.Request) {
		if err := ledger.Withdraw(r.Context(), caller(r)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawal complete"})
	})

	mux.HandleFunc("POST /pause", func(w http.ResponseWriter, r *http.Request) {
		if err := ledger.Pause(r.Context(), caller(r)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
	})

	mux.HandleFunc("POST /unpause", func(w http.ResponseWriter, r *http.Request) {
		if err := ledger.Unpause(r.Context(), caller(r)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "unpaused"})
	})

	mux.HandleFunc("POST /emergency-withdrawal", func(w http.ResponseWriter, r *http.Request) {
		if err := ledger.EmergencyWithdraw(r.Context(), caller(r)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "custody pool withdrawn"})
	})

	mux.HandleFunc("GET /state", func(w http.ResponseWriter, r *http.Request) {
		count, err := trail.Count()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"owner":             ledger.Owner(),
			"paused":            ledger.Paused(),
			"totals":            ledger.Totals(),
			"beneficiary_count": ledger.BeneficiaryCount(),
			"audit_records":     count,
		})
	})

	mux.HandleFunc("GET /balances", func(w http.ResponseWriter, r *http.Request) {
		principal := models.Principal(r.URL.Query().Get("principal"))
		if principal.Zero() {
			http.Error(w, "principal is a mandatory field", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"principal":         principal,
			"pending":           ledger.PendingOf(principal),
			"lifetime_received": ledger.LifetimeReceivedOf(principal),
			"lifetime_donated":  ledger.LifetimeDonatedOf(principal),
			"is_beneficiary":    ledger.IsBeneficiary(principal),
		})
	})

	mux.HandleFunc("GET /projected-share", func(w http.ResponseWriter, r *http.Request) {
		amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
		if err != nil {
			http.Error(w, "amount must be a number", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"amount":            amount,
			"beneficiary_count": ledger.BeneficiaryCount(),
			"share":             ledger.ProjectedShare(amount),
		})
	})

	mux.HandleFunc("GET /audit", func(w http.ResponseWriter, r *http.Request) {
		records, err := queryTrail(trail, r)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	mux.HandleFunc("GET /audit/summary", func(w http.ResponseWriter, r *http.Request) {
		summary, err := trail.Summarize()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	})

	mux.HandleFunc("GET /audit/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "id must be a non-negative integer", http.StatusBadRequest)
			return
		}
		record, err := trail.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	})

	return mux
}

// queryTrail picks the audit query from the request: at most one of
// principal=, action= or latest= applies; none means the full trail.
func queryTrail(trail *audit.Trail, r *http.Request) ([]models.AuditRecord, error) {
	q := r.URL.Query()
	if p := q.Get("principal"); p != "" {
		return trail.GetByPrincipal(models.Principal(p))
	}
	if a := q.Get("action"); a != "" {
		return trail.GetByAction(models.Action(a))
	}
	if l := q.Get("latest"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			return nil, errors.New("latest must be an integer")
		}
		return trail.GetLatest(n)
	}
	return trail.GetAll()
}

// caller extracts the requesting principal. The header stands in for a
// signed caller identity.
func caller(r *http.Request) models.Principal {
	return models.Principal(r.Header.Get("X-Principal"))
}

func decodePrincipalBody(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	var req struct {
		Principal models.Principal `json:"principal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return "", false
	}
	return req.Principal, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the contract's error taxonomy onto status codes.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, contract.ErrUnauthorized), errors.Is(err, contract.ErrNotEligible):
		status = http.StatusForbidden
	case errors.Is(err, contract.ErrSystemPaused):
		status = http.StatusConflict
	case errors.Is(err, audit.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, contract.ErrTransferFailed):
		status = http.StatusBadGateway
	case errors.Is(err, contract.ErrInvalidTarget),
		errors.Is(err, contract.ErrInvalidAmount),
		errors.Is(err, contract.ErrNoRecipients),
		errors.Is(err, contract.ErrNoBalance):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), status)
}
