// ABOUTME: Minimal Prometheus metric registry built on the client_model data types
// ABOUTME: Counters and gauges with labels, exposed in the text exposition format

package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// Registry holds metric families and renders them for scraping.
type Registry struct {
	mu       sync.Mutex
	families map[string]*family
}

type family struct {
	name   string
	help   string
	typ    dto.MetricType
	labels []string
	series map[string]*series
}

type series struct {
	values []string
	value  float64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{families: make(map[string]*family)}
}

func (r *Registry) register(name, help string, typ dto.MetricType, labels []string) *family {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.families[name]; ok {
		if f.typ != typ {
			panic(fmt.Sprintf("metrics: %s registered twice with different types", name))
		}
		return f
	}
	f := &family{
		name:   name,
		help:   help,
		typ:    typ,
		labels: labels,
		series: make(map[string]*series),
	}
	r.families[name] = f
	return f
}

// update applies fn to the series identified by values, creating it at zero.
func (r *Registry) update(f *family, values []string, fn func(*series)) {
	if len(values) != len(f.labels) {
		panic(fmt.Sprintf("metrics: %s expects %d label values, got %d", f.name, len(f.labels), len(values)))
	}
	key := strings.Join(values, "\xff")

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := f.series[key]
	if !ok {
		s = &series{values: append([]string(nil), values...)}
		f.series[key] = s
	}
	fn(s)
}

// CounterVec is a monotonically increasing counter partitioned by labels.
type CounterVec struct {
	reg *Registry
	f   *family
}

// Counter registers (or returns the existing) counter family.
func (r *Registry) Counter(name, help string, labels ...string) *CounterVec {
	return &CounterVec{reg: r, f: r.register(name, help, dto.MetricType_COUNTER, labels)}
}

// Inc adds one to the series for values.
func (c *CounterVec) Inc(values ...string) {
	c.Add(1, values...)
}

// Add adds v to the series for values. Negative v panics.
func (c *CounterVec) Add(v float64, values ...string) {
	if v < 0 {
		panic(fmt.Sprintf("metrics: counter %s cannot decrease", c.f.name))
	}
	c.reg.update(c.f, values, func(s *series) { s.value += v })
}

// GaugeVec is a value that can go up and down, partitioned by labels.
type GaugeVec struct {
	reg *Registry
	f   *family
}

// Gauge registers (or returns the existing) gauge family.
func (r *Registry) Gauge(name, help string, labels ...string) *GaugeVec {
	return &GaugeVec{reg: r, f: r.register(name, help, dto.MetricType_GAUGE, labels)}
}

// Set replaces the series value.
func (g *GaugeVec) Set(v float64, values ...string) {
	g.reg.update(g.f, values, func(s *series) { s.value = v })
}

// Gather snapshots every family as client_model protobufs, sorted by name.
func (r *Registry) Gather() []*dto.MetricFamily {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*dto.MetricFamily, 0, len(names))
	for _, name := range names {
		f := r.families[name]
		mf := &dto.MetricFamily{
			Name: proto.String(f.name),
			Help: proto.String(f.help),
			Type: f.typ.Enum(),
		}

		keys := make([]string, 0, len(f.series))
		for k := range f.series {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			mf.Metric = append(mf.Metric, f.metric(f.series[k]))
		}
		out = append(out, mf)
	}
	return out
}

func (f *family) metric(s *series) *dto.Metric {
	m := &dto.Metric{}
	for i, name := range f.labels {
		m.Label = append(m.Label, &dto.LabelPair{
			Name:  proto.String(name),
			Value: proto.String(s.values[i]),
		})
	}
	switch f.typ {
	case dto.MetricType_COUNTER:
		m.Counter = &dto.Counter{Value: proto.Float64(s.value)}
	default:
		m.Gauge = &dto.Gauge{Value: proto.Float64(s.value)}
	}
	return m
}

// WriteText renders all families in the Prometheus text format. Families with
// no series yet are omitted.
func (r *Registry) WriteText(w io.Writer) error {
	for _, mf := range r.Gather() {
		if len(mf.GetMetric()) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Handler serves the registry for scraping.
func (r *Registry) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
		if err := r.WriteText(w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
