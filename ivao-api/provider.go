package ivaoapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vatsimnerd/perfetch"
	"github.com/vatsimnerd/util/mapupdate"
	"github.com/vatsimnerd/util/pubsub"
	"golang.org/x/time/rate"
)

type Provider struct {
	*pubsub.Provider

	cfg     Config
	client  *http.Client
	metrics *Metrics

	lifeLock sync.Mutex
	started  bool
	stopped  bool
	cancel   context.CancelFunc
	done     chan struct{}

	// notifyLock orders initial notifications against disposal of the
	// subscriptions they write to
	notifyLock sync.RWMutex
	disposed   bool

	// snapLock guards the snapshot pointer only, never I/O or parsing
	snapLock sync.RWMutex
	snapshot *Snapshot

	controllers map[string]Controller
	dataLock    sync.RWMutex
}

const (
	IvaoATCSummaryURL = "https://api.ivao.aero/v2/tracker/now/atc/summary"
	DefaultUserAgent  = "ivao-overlay/1.0"
)

const (
	ObjectTypeController pubsub.ObjectType = 400 + iota
)

var (
	log = logrus.WithField("module", "ivao-api")
)

func New(cfg *Config) *Provider {
	c := cfg.withDefaults()
	return &Provider{
		Provider:    pubsub.NewProvider(),
		cfg:         c,
		client:      newHTTPClient(c),
		metrics:     newMetrics(),
		done:        make(chan struct{}),
		controllers: make(map[string]Controller),
	}
}

// Start launches the polling goroutine and doesn't wait for the first fetch.
func (p *Provider) Start() error {
	p.lifeLock.Lock()
	defer p.lifeLock.Unlock()

	if p.stopped {
		return fmt.Errorf("can't start once stopped provider")
	}
	if p.started {
		return fmt.Errorf("provider is already started")
	}
	p.started = true

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.loop(ctx)
	return nil
}

// Stop cancels any in-flight request and blocks until the polling goroutine
// has exited. No snapshot is published after Stop returns. Stop closes every
// subscription, so subscribers must not Unsubscribe afterwards.
func (p *Provider) Stop() {
	p.lifeLock.Lock()
	if p.stopped {
		p.lifeLock.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	p.lifeLock.Unlock()

	if !started {
		return
	}
	p.cancel()
	<-p.done
}

// Snapshot returns the last published roster or nil if none was published yet.
func (p *Provider) Snapshot() *Snapshot {
	p.snapLock.RLock()
	defer p.snapLock.RUnlock()
	return p.snapshot
}

// ForEach calls fn for every controller of the current snapshot in rank order.
func (p *Provider) ForEach(fn func(*Controller)) {
	snap := p.Snapshot()
	if snap == nil {
		return
	}
	snap.ForEach(fn)
}

func (p *Provider) loop(ctx context.Context) {
	defer close(p.done)
	defer p.dispose()

	log.WithField("url", p.cfg.URL).Info("entering ivao atc provider loop()")

	poller := perfetch.New(p.cfg.Poll.Period, func() ([]byte, error) {
		return p.download(ctx)
	})
	psub := poller.Subscribe(1024)
	defer poller.Unsubscribe(psub)

	p.SetInitialNotifier(func(sub pubsub.Subscription) {
		// make notifier async to avoid reaching chan buffer limit
		go p.notifyInitial(sub)
	})

	// the first cycle runs right away, the poller keeps the cadence after it
	if raw, err := p.download(ctx); err != nil {
		log.WithError(err).Error("error fetching ivao atc roster")
	} else if !p.handle(ctx, raw) {
		return
	}

	retry := rate.NewLimiter(rate.Every(p.cfg.Poll.Period), 1)
	for {
		if err := retry.Wait(ctx); err != nil {
			log.Info("stop signal received")
			return
		}
		err := poller.Start()
		if err == nil {
			break
		}
		log.WithError(err).Error("error starting ivao atc poller")
	}
	// the fetcher is bound to ctx, so an in-flight request is already
	// cancelled when Stop runs
	defer poller.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("stop signal received")
			return
		case raw := <-psub.Updates():
			if !p.handle(ctx, raw) {
				return
			}
		}
	}
}

// handle parses and publishes one downloaded roster. It returns false once
// the provider is stopping.
func (p *Provider) handle(ctx context.Context, raw []byte) bool {
	ctrls, err := p.parse(raw)
	if ctx.Err() != nil {
		log.Info("stop signal received, dropping fetch result")
		return false
	}
	if err != nil {
		log.WithError(err).Error("error parsing ivao atc roster")
		return true
	}
	p.publish(ctrls)
	return true
}

// notifyInitial replays the current snapshot to a new subscriber. Nothing is
// sent once the provider is stopping.
func (p *Provider) notifyInitial(sub pubsub.Subscription) {
	snap := p.Snapshot()
	if snap == nil {
		return
	}

	p.notifyLock.RLock()
	defer p.notifyLock.RUnlock()
	if p.disposed {
		return
	}
	snap.ForEach(func(ctrl *Controller) {
		sub.Send(pubsub.Update{UType: pubsub.UpdateTypeSet, OType: ObjectTypeController, Obj: *ctrl})
	})
	sub.Fin()
}

// dispose closes every subscription. Subscribers must keep reading until
// their channel is closed, otherwise a pending initial notification blocks it.
func (p *Provider) dispose() {
	p.notifyLock.Lock()
	defer p.notifyLock.Unlock()
	p.disposed = true
	p.Dispose()
}

func (p *Provider) publish(ctrls []*Controller) {
	snap := &Snapshot{FetchedAt: time.Now(), controllers: ctrls}

	p.snapLock.Lock()
	p.snapshot = snap
	p.snapLock.Unlock()

	p.metrics.observePublish(len(ctrls), snap.FetchedAt)
	log.WithField("controllers", len(ctrls)).Debug("ivao atc roster updated")

	controllers := make(map[string]Controller, len(ctrls))
	for _, ctrl := range ctrls {
		controllers[ctrl.key()] = *ctrl
	}

	ctrlSet, ctrlDel := mapupdate.Update[Controller, mapupdate.Comparable[Controller]](p.controllers, controllers, &p.dataLock)
	for _, set := range ctrlSet {
		log.WithField("callsign", set.Callsign).Trace("set controller")
	}
	for _, del := range ctrlDel {
		log.WithField("callsign", del.Callsign).Trace("delete controller")
	}
	for _, update := range pubsub.MakeUpdates(ctrlSet, ctrlDel, ObjectTypeController) {
		p.Notify(update)
	}
	p.Fin()

	p.SetDataReady(true)
}
