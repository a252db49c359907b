/*
Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
*/
package metrics

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/x-xyz/auctionhouse/base/env"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// New creates a metric client with package name as prefix. Metrics go to
// the datadog agent at `datadog_host`, or to the debug log when it is unset.
func New(pkgName string) Service {
	return &Metrics{
		pkgName: pkgName,
		tags: []string{
			// using host removes all tags associated with host
			// ref: https://docs.datadoghq.com/developers/dogstatsd/data_types/#host-tag-key
			"host:",
			"pod:" + env.PodName(),
			"env:" + viper.GetString("env_name"),
			"app:" + viper.GetString("app_name"),
		},
	}
}

type Metrics struct {
	pkgName string
	tags    []string
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

// bumpPanic swallows a panic raised by inconsistent tagging and counts it instead.
func (mt *Metrics) bumpPanic(typ, key string, tags []string) {
	if err := recover(); err != nil {
		_ = client().Count(typ+".panic", 1, []string{"tag:" + mt.key(key) + "#" + strings.Join(tags, "#")}, 1)
	}
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.bumpPanic("bumpavg", key, tags)
	report(client().Gauge(mt.key(key), val, mt.withTags(tags), 1), key, val)
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.bumpPanic("bumpsum", key, tags)
	report(client().Count(mt.key(key), int64(val), mt.withTags(tags), 1), key, val)
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.bumpPanic("bumphistogram", key, tags)
	report(client().Histogram(mt.key(key), val, mt.withTags(tags), 1), key, val)
}

// BumpTime starts a timer which is reported on End():
//
//	defer s.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{
		mt:    mt,
		key:   key,
		tags:  tags,
		start: time.Now(),
	}
}

func (mt *Metrics) withTags(tags []string) []string {
	res := make([]string, 0, len(mt.tags)+len(tags)/2)
	res = append(res, mt.tags...)
	return append(res, parseTag(tags)...)
}

type timeTracker struct {
	mt    *Metrics
	key   string
	tags  []string
	start time.Time
}

func (t *timeTracker) End() {
	defer t.mt.bumpPanic("bumptime", t.key, t.tags)
	d := time.Since(t.start)
	msec := float64(d/time.Millisecond) + float64(d%time.Millisecond)*1e-6
	report(client().TimeInMilliseconds(t.mt.key(t.key), msec, t.mt.withTags(t.tags), 1), t.key, msec)
}
