// Package geosync converges the host firewall's allow-rules against a
// country-level IP range list while preserving loopback, local-network,
// and SSH access. Managed rules carry comment tags so each run can find
// and purge what the previous run created.
package geosync

import (
	"context"
	"net"
	"sort"
	"strings"

	"github.com/netfence/geogate/internal/clock"
	"github.com/netfence/geogate/internal/config"
	"github.com/netfence/geogate/internal/firewall"
	"github.com/netfence/geogate/internal/logging"
	"github.com/netfence/geogate/internal/metrics"
	"github.com/netfence/geogate/internal/validation"
)

// Loopback sources ensured on every run.
const (
	LoopbackV4 = "127.0.0.1"
	LoopbackV6 = "::1"
)

// Reconciler converges live firewall state to the desired rule set. It is
// stateless between runs; everything it needs is injected at construction.
type Reconciler struct {
	fw      firewall.Client
	fetcher ListFetcher
	cfg     *config.Config
	log     *logging.Logger
	metrics *metrics.Registry
	clock   clock.Clock
}

// New creates a Reconciler. A nil logger uses the default logger.
func New(fw firewall.Client, fetcher ListFetcher, cfg *config.Config, log *logging.Logger) *Reconciler {
	if log == nil {
		log = logging.Default()
	}
	return &Reconciler{
		fw:      fw,
		fetcher: fetcher,
		cfg:     cfg,
		log:     log.WithComponent("geosync"),
		metrics: metrics.Get(),
		clock:   &clock.RealClock{},
	}
}

// Run executes one reconciliation pass in fixed order: purge (update mode
// only), ensure static rules, fetch, add country rules. Individual rule
// failures and a failed fetch degrade the cycle but never abort it; Run
// returns an error only when the rule listing itself is unavailable.
func (r *Reconciler) Run(ctx context.Context, mode Mode) (Report, error) {
	start := r.clock.Now()
	rep := Report{Mode: mode}

	r.log.Info("starting run", "mode", string(mode), "country", r.cfg.Country)

	if mode == ModeUpdate {
		deleted, failed, err := r.PurgeTagged(r.cfg.Tags.Country)
		if err != nil {
			return rep, err
		}
		rep.Deleted = deleted
		rep.FailedDeletes = failed
	}

	if err := r.EnsureStatic(&rep); err != nil {
		return rep, err
	}

	set, err := r.fetcher.Fetch(ctx, r.cfg.FetchURL())
	if err != nil {
		rep.FetchFailed = true
		r.log.Error("range list download failed, no country rules this cycle", "error", err)
	} else {
		r.AddCountryRules(set, &rep)
	}

	r.updateGauges()
	r.metrics.RecordRun(string(mode), rep.FetchFailed, r.clock.Since(start))
	r.log.Info("run complete", "report", rep.String())

	return rep, nil
}

// PurgeTagged deletes every live rule whose comment equals tag, highest
// index first so earlier deletions don't shift the remaining indices.
// A failed deletion is logged and skipped.
func (r *Reconciler) PurgeTagged(tag string) (deleted, failed int, err error) {
	rules, err := r.fw.Rules()
	if err != nil {
		return 0, 0, err
	}

	tagged := firewall.FilterByComment(rules, tag)
	sort.Slice(tagged, func(i, j int) bool { return tagged[i].Index > tagged[j].Index })

	for _, rule := range tagged {
		if err := r.fw.DeleteByIndex(rule.Index); err != nil {
			r.log.Warn("failed to delete rule, skipping", "index", rule.Index, "source", rule.From, "error", err)
			failed++
			continue
		}
		r.metrics.RulesDeleted.WithLabelValues(tag).Inc()
		deleted++
	}

	if deleted > 0 || failed > 0 {
		r.log.Info("purged tagged rules", "tag", tag, "deleted", deleted, "failed", failed)
	}
	return deleted, failed, nil
}

// EnsureStatic idempotently adds the always-present rules: loopback v4/v6,
// each configured local network, and the SSH service. It runs in every
// mode and never deletes anything.
func (r *Reconciler) EnsureStatic(rep *Report) error {
	rules, err := r.fw.Rules()
	if err != nil {
		return err
	}

	ensureSource := func(source, tag string) {
		for _, rule := range rules {
			if rule.AllowsFrom(source) {
				return
			}
		}
		if err := r.fw.AllowFrom(source, tag); err != nil {
			r.log.Error("failed to add static rule", "source", source, "tag", tag, "error", err)
			rep.FailedAdds++
			return
		}
		r.metrics.RulesAdded.WithLabelValues(tag).Inc()
		rep.StaticAdded++
		r.log.Info("added static rule", "source", source, "tag", tag)
	}

	ensureSource(LoopbackV4, r.cfg.Tags.Loopback)
	ensureSource(LoopbackV6, r.cfg.Tags.Loopback)

	for _, cidr := range r.cfg.LocalNetworks {
		if err := validation.ValidateIPv4CIDR(cidr); err != nil {
			r.log.Warn("skipping invalid local network entry", "entry", cidr, "error", err)
			continue
		}
		ensureSource(cidr, r.cfg.Tags.Local)
	}

	sshAllowed := false
	for _, rule := range rules {
		if rule.AllowsService(r.cfg.SSH.Port, r.cfg.SSH.Protocol) {
			sshAllowed = true
			break
		}
	}
	if !sshAllowed {
		if err := r.fw.AllowService(r.cfg.SSH.Port, r.cfg.SSH.Protocol, r.cfg.Tags.SSH); err != nil {
			r.log.Error("failed to add SSH rule", "port", r.cfg.SSH.Port, "error", err)
			rep.FailedAdds++
		} else {
			r.metrics.RulesAdded.WithLabelValues(r.cfg.Tags.SSH).Inc()
			rep.StaticAdded++
			r.log.Info("added SSH rule", "port", r.cfg.SSH.Port, "protocol", r.cfg.SSH.Protocol)
		}
	}

	return nil
}

// AddCountryRules walks the downloaded list and adds an allow rule for
// every valid entry not already covered by a configured local network.
// Malformed entries are logged and skipped; the batch never aborts.
func (r *Reconciler) AddCountryRules(set *RangeSet, rep *Report) {
	locals := r.parsedLocalNetworks()
	tag := r.cfg.Tags.Country
	seen := make(map[string]bool)

	for _, raw := range set.Lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			r.log.Debug("duplicate list entry, skipping", "entry", line)
			continue
		}
		seen[line] = true

		entry, err := validation.ParseIPv4CIDR(line)
		if err != nil {
			r.log.Warn("skipping malformed list entry", "entry", line, "error", err)
			r.metrics.SkippedEntries.WithLabelValues("invalid").Inc()
			rep.SkippedInvalid++
			continue
		}

		if local := coveringNetwork(entry, locals); local != "" {
			r.log.Debug("entry covered by local network, skipping", "entry", line, "local", local)
			r.metrics.SkippedEntries.WithLabelValues("local").Inc()
			rep.SkippedLocal++
			continue
		}

		if err := r.fw.AllowFrom(line, tag); err != nil {
			r.log.Error("failed to add country rule", "source", line, "error", err)
			rep.FailedAdds++
			continue
		}
		r.metrics.RulesAdded.WithLabelValues(tag).Inc()
		rep.Added++
	}

	r.log.Info("country rules applied",
		"added", rep.Added, "skipped_local", rep.SkippedLocal, "skipped_invalid", rep.SkippedInvalid)
}

// parsedLocalNetworks parses the configured local networks, dropping
// invalid entries. EnsureStatic already warned about those.
func (r *Reconciler) parsedLocalNetworks() map[string]*net.IPNet {
	locals := make(map[string]*net.IPNet, len(r.cfg.LocalNetworks))
	for _, cidr := range r.cfg.LocalNetworks {
		ipnet, err := validation.ParseIPv4CIDR(cidr)
		if err != nil {
			continue
		}
		locals[cidr] = ipnet
	}
	return locals
}

// coveringNetwork returns the configured local network that fully contains
// entry, or "" if none does. True subnet containment, not just literal
// equality: a sub-range of a local network needs no country-specific
// duplicate either.
func coveringNetwork(entry *net.IPNet, locals map[string]*net.IPNet) string {
	entryOnes, _ := entry.Mask.Size()
	for cidr, local := range locals {
		localOnes, _ := local.Mask.Size()
		if localOnes <= entryOnes && local.Contains(entry.IP) {
			return cidr
		}
	}
	return ""
}

// updateGauges refreshes the per-tag live rule gauges. Best effort; a
// listing failure here only affects metrics.
func (r *Reconciler) updateGauges() {
	rules, err := r.fw.Rules()
	if err != nil {
		return
	}
	for _, tag := range []string{r.cfg.Tags.Country, r.cfg.Tags.Local, r.cfg.Tags.Loopback, r.cfg.Tags.SSH} {
		r.metrics.TaggedRules.WithLabelValues(tag).Set(float64(len(firewall.FilterByComment(rules, tag))))
	}
}
