package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listings_created_total",
		Help: "Listings created, by content type.",
	}, []string{"content_type"})

	creditsMoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credits_moved_total",
		Help: "Absolute credits moved through the balance authority, by ledger kind.",
	}, []string{"kind"})

	moderationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_decisions_total",
		Help: "Moderation decisions recorded, by decision.",
	}, []string{"decision"})

	refundsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listing_refunds_total",
		Help: "Compensating refunds issued after a failed listing insert.",
	})
)
