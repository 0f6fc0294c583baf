package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder 业务指标，服务层依赖此接口
type Recorder interface {
	AccountRegistered(role string)
	LoginAttempt(ok bool)
	ApplicationCreated()
	ApplicationStatusChanged(status string)
	JobChanged(action string)
}

type Collector struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	applications  prometheus.Counter
	statusChanges *prometheus.CounterVec
	jobChanges    *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careerflow_registrations_total",
			Help: "Accounts registered, by role",
		}, []string{"role"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careerflow_logins_total",
			Help: "Login attempts, by outcome",
		}, []string{"outcome"}),
		applications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careerflow_applications_created_total",
			Help: "Applications submitted",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careerflow_application_status_changes_total",
			Help: "Application status updates, by new status",
		}, []string{"status"}),
		jobChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careerflow_job_changes_total",
			Help: "Job postings created/updated/deleted",
		}, []string{"action"}),
	}
	reg.MustRegister(c.registrations, c.logins, c.applications, c.statusChanges, c.jobChanges)
	return c
}

func (c *Collector) AccountRegistered(role string) { c.registrations.WithLabelValues(role).Inc() }

func (c *Collector) LoginAttempt(ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) ApplicationCreated() { c.applications.Inc() }

func (c *Collector) ApplicationStatusChanged(status string) {
	c.statusChanges.WithLabelValues(status).Inc()
}

func (c *Collector) JobChanged(action string) { c.jobChanges.WithLabelValues(action).Inc() }

// Nop 不记录任何指标
type Nop struct{}

func (Nop) AccountRegistered(string)        {}
func (Nop) LoginAttempt(bool)               {}
func (Nop) ApplicationCreated()             {}
func (Nop) ApplicationStatusChanged(string) {}
func (Nop) JobChanged(string)               {}

// Handler 暴露 /metrics
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
