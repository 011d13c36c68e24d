// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthChallengesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credenza_auth_challenges_issued_total",
		Help: "Authentication challenges handed out.",
	})

	AuthVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credenza_auth_verifications_total",
		Help: "Challenge verification attempts by result.",
	}, []string{"result"})

	CredentialsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credenza_credentials_issued_total",
		Help: "Credentials issued by type.",
	}, []string{"type"})

	CredentialsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credenza_credentials_revoked_total",
		Help: "Credentials revoked.",
	})

	CredentialVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credenza_credential_verifications_total",
		Help: "Credential verification checks by result.",
	}, []string{"result"})

	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credenza_kyc_sessions_created_total",
		Help: "KYC sessions opened.",
	})

	SessionSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credenza_kyc_session_submissions_total",
		Help: "KYC session submissions by outcome.",
	}, []string{"outcome"})

	SessionsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credenza_kyc_sessions_purged_total",
		Help: "Expired KYC sessions removed by the sweeper.",
	})
)
