package service

import (
	"taskmanager/internal/policy"

	"github.com/prometheus/client_golang/prometheus"
)

var AuthzDenied = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authorization_denied_total",
		Help: "Total requests rejected by the authorization policy",
	},
	[]string{"resource", "action"},
)

func init() {
	prometheus.MustRegister(AuthzDenied)
}

// authorize turns a policy decision into an error and counts denials.
func authorize(d policy.Decision, resource string, action policy.Action) error {
	if err := d.Err(resource, action); err != nil {
		AuthzDenied.WithLabelValues(resource, string(action)).Inc()
		return err
	}
	return nil
}
