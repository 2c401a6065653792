package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics
var (
	transactionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneytracker_transactions_created_total",
		Help: "Transactions recorded, by type",
	}, []string{"type"})

	transactionsReversed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneytracker_transactions_reversed_total",
		Help: "Transactions reversed, by type",
	}, []string{"type"})

	statementsExported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moneytracker_statements_exported_total",
		Help: "CSV statements uploaded to object storage",
	})
)
