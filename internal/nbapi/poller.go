package nbapi

import (
	"context"
	"sync"
	"time"

	"github.com/fbettag/easymesh-monitor/internal/topology"
)

// CycleFunc is called after every completed poll cycle with the freshly
// published topology and the stations that moved since the previous
// cycle.
type CycleFunc func(topo *topology.Topology, moved []string)

// Poller periodically fetches the controller's data model, resolves it
// into a Topology and publishes the result. One poller runs per
// controller connection; starting a new connection stops the old one.
//
// The resolved topology is published only after all resolver passes
// complete, by swapping a pointer under the lock, so readers never
// observe a half-built graph.
type Poller struct {
	client  *Client
	history *History
	cadence time.Duration
	logger  Logger
	onCycle CycleFunc

	mu         sync.RWMutex
	topo       *topology.Topology
	heartbeats int

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	cancel   context.CancelFunc
}

// NewPoller creates a poller over the given client. The history store is
// reused across cycles; its RSSI series are cleared when the poller
// starts, since a new poller means a new controller connection.
func NewPoller(client *Client, history *History, cadence time.Duration, logger Logger, onCycle CycleFunc) *Poller {
	if logger == nil {
		logger = nopLogger{}
	}
	if history == nil {
		history = NewHistory()
	}
	return &Poller{
		client:  client,
		history: history,
		cadence: cadence,
		logger:  logger,
		onCycle: onCycle,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the polling loop in a background goroutine.
func (p *Poller) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.history.Reset()
	go p.run(ctx)
}

// Stop signals the polling loop to exit and cancels any in-flight
// request. It returns once the loop has finished.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
		if p.cancel != nil {
			p.cancel()
		}
	})
	<-p.done
}

// Topology returns the most recently published topology, or nil before
// the first successful cycle.
func (p *Poller) Topology() *topology.Topology {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.topo
}

// Heartbeats returns the number of completed poll cycles.
func (p *Poller) Heartbeats() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.heartbeats
}

// History returns this connection's cross-cycle history store.
func (p *Poller) History() *History {
	return p.history
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case <-p.stop:
			p.logger.Infof("Poller stopping")
			return
		default:
		}

		blob, err := p.client.FetchDataModel(ctx)
		if err != nil {
			// A failed fetch ends the task; the caller reconnects.
			p.logger.Errorf("Failed to fetch data model: %v", err)
			return
		}

		topo := Resolve(blob, p.history, p.logger)
		moved := p.history.ConsumeMovedStations()

		p.mu.Lock()
		p.topo = topo
		p.heartbeats++
		p.mu.Unlock()

		if topo.Controller() == nil {
			// Perhaps the data-model root has moved; refresh it for the
			// next cycle.
			p.logger.Debugf("No controller resolved from blob, refreshing root DM path")
			if err := p.client.ResolveRootPath(ctx); err != nil {
				p.logger.Errorf("Failed to refresh root DM path: %v", err)
			}
		}

		if p.onCycle != nil {
			p.onCycle(topo, moved)
		}

		select {
		case <-p.stop:
			p.logger.Infof("Poller stopping")
			return
		case <-time.After(p.cadence):
		}
	}
}
