package ampevents

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
)

type defaultEventProcessor struct {
	inboxCh       chan eventDispatcherMessage
	inboxFullOnce sync.Once
	closeOnce     sync.Once
	loggers       ldlog.Loggers
}

type eventDispatcher struct {
	config    EventsConfiguration
	sessions  *sessionTracker
	userID    string
	suspended bool
	stateLock sync.Mutex
}

// flushPayload is the token handed to the upload task. The batch itself is read from the store by
// the task, so that newly appended entries are observed by the next cycle, not this one.
type flushPayload struct {
	deviceID string
	userID   string
}

type uploadEventsTask struct {
	config    EventsConfiguration
	formatter eventOutputFormatter
	// retriggerFn posts a new flush request back to the dispatcher after a full batch was
	// uploaded successfully, since more entries may remain queued.
	retriggerFn func()
	// resultFn reports each upload outcome back to the dispatcher.
	resultFn func(EventSenderResult)
}

// Payload of the inboxCh channel.
type eventDispatcherMessage interface{}

type sendEventMessage struct {
	event Event
}

type sendIdentifyMessage struct {
	identify Identify
}

type flushEventsMessage struct {
	// explicit is true for an application-requested flush, which also clears the suspended state
	// after an unrecoverable upload error. Automatic triggers leave it false.
	explicit bool
}

type setUserIDMessage struct {
	userID string
}

type startSessionMessage struct{}

type endSessionMessage struct{}

type shutdownEventsMessage struct {
	replyCh chan struct{}
}

type syncEventsMessage struct {
	replyCh chan struct{}
}

// NewDefaultEventProcessor creates an instance of the default implementation of the analytics
// event pipeline.
func NewDefaultEventProcessor(config EventsConfiguration) EventProcessor {
	config = config.withDefaults()
	inboxCh := make(chan eventDispatcherMessage, config.InboxCapacity)
	startEventDispatcher(config, inboxCh)
	return &defaultEventProcessor{
		inboxCh: inboxCh,
		loggers: config.Loggers,
	}
}

func (ep *defaultEventProcessor) SendEvent(e Event) {
	ep.postNonBlockingMessageToInbox(sendEventMessage{event: e})
}

func (ep *defaultEventProcessor) SendIdentify(i Identify) {
	ep.postNonBlockingMessageToInbox(sendIdentifyMessage{identify: i})
}

func (ep *defaultEventProcessor) Flush() {
	ep.postNonBlockingMessageToInbox(flushEventsMessage{explicit: true})
}

func (ep *defaultEventProcessor) FlushBlocking(timeout time.Duration) bool {
	if !ep.postNonBlockingMessageToInbox(flushEventsMessage{explicit: true}) {
		return false
	}
	m := syncEventsMessage{replyCh: make(chan struct{}, 1)}
	if !ep.postNonBlockingMessageToInbox(m) {
		return false
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-m.replyCh:
		return true
	case <-timer.C:
		return false
	}
}

func (ep *defaultEventProcessor) SetUserID(userID string) {
	ep.postNonBlockingMessageToInbox(setUserIDMessage{userID: userID})
}

func (ep *defaultEventProcessor) StartSession() {
	ep.postNonBlockingMessageToInbox(startSessionMessage{})
}

func (ep *defaultEventProcessor) EndSession() {
	ep.postNonBlockingMessageToInbox(endSessionMessage{})
}

func (ep *defaultEventProcessor) postNonBlockingMessageToInbox(m eventDispatcherMessage) bool {
	select {
	case ep.inboxCh <- m:
		return true
	default:
	}
	// If the inbox is full, the dispatcher is seriously backed up. Blocking here would stall the
	// application goroutine that is logging the event, so we drop it instead. The warning is only
	// logged once.
	ep.inboxFullOnce.Do(func() {
		ep.loggers.Warn("Events are being produced faster than they can be processed; some events will be dropped")
	})
	return false
}

func (ep *defaultEventProcessor) Close() error {
	ep.closeOnce.Do(func() {
		// We put the flush and shutdown messages directly into the channel instead of calling
		// postNonBlockingMessageToInbox, because we *do* want to block to make sure there is room
		// in the channel; these are necessary for an orderly shutdown.
		ep.inboxCh <- flushEventsMessage{explicit: true}
		m := shutdownEventsMessage{replyCh: make(chan struct{})}
		ep.inboxCh <- m
		<-m.replyCh
	})
	return nil
}

func startEventDispatcher(config EventsConfiguration, inboxCh chan eventDispatcherMessage) {
	ed := &eventDispatcher{
		config:   config,
		sessions: newSessionTracker(config),
		userID:   config.UserID,
	}

	// A single upload task guarantees at most one in-flight upload. The capacity-1 trigger
	// channel lets one more flush be queued while an upload is running; any further triggers are
	// coalesced in triggerFlush.
	flushCh := make(chan *flushPayload, 1)
	var workersGroup sync.WaitGroup
	retriggerFn := func() {
		// Delivered as an ordinary flush message so that the decision is made on the dispatcher
		// goroutine; non-blocking because a lost retrigger is recovered by the next ticker cycle.
		select {
		case inboxCh <- flushEventsMessage{}:
		default:
		}
	}
	startUploadTask(config, flushCh, &workersGroup,
		retriggerFn,
		func(result EventSenderResult) { ed.handleResult(result) })
	go ed.runMainLoop(inboxCh, flushCh, &workersGroup)
}

func (ed *eventDispatcher) runMainLoop(
	inboxCh <-chan eventDispatcherMessage,
	flushCh chan<- *flushPayload,
	workersGroup *sync.WaitGroup,
) {
	defer func() {
		if err := recover(); err != nil {
			ed.config.Loggers.Errorf("Unexpected panic in event processing thread: %+v", err)
		}
	}()

	uploadTicker := time.NewTicker(ed.config.UploadPeriod)

	for {
		select {
		case message := <-inboxCh:
			switch m := message.(type) {
			case sendEventMessage:
				ed.processEvent(m.event, flushCh, workersGroup)
			case sendIdentifyMessage:
				ed.processIdentify(m.identify, flushCh, workersGroup)
			case flushEventsMessage:
				ed.triggerFlush(m.explicit, flushCh, workersGroup)
			case setUserIDMessage:
				ed.userID = m.userID
			case startSessionMessage:
				ed.appendAll(ed.sessions.startSession(ldtime.UnixMillisNow()))
			case endSessionMessage:
				ed.appendAll(ed.sessions.endSession())
			case syncEventsMessage:
				workersGroup.Wait()
				m.replyCh <- struct{}{}
			case shutdownEventsMessage:
				uploadTicker.Stop()
				workersGroup.Wait() // Wait for any in-progress upload to complete
				close(flushCh)      // Causes the idle upload task to terminate
				m.replyCh <- struct{}{}
				return
			}
		case <-uploadTicker.C:
			if ed.config.Store.Count() > 0 {
				ed.triggerFlush(false, flushCh, workersGroup)
			}
		}
	}
}

func (ed *eventDispatcher) processEvent(evt Event, flushCh chan<- *flushPayload, workersGroup *sync.WaitGroup) {
	if evt.Timestamp == 0 {
		evt.Timestamp = ldtime.UnixMillisNow()
	}
	if evt.OutOfSession {
		evt.SessionID = SessionIDOutOfSession
	} else {
		sessionID, sessionEvents := ed.sessions.routeEvent(evt.Timestamp)
		ed.appendAll(sessionEvents)
		evt.SessionID = sessionID
	}
	ed.appendEntry(StoredEntry{Kind: EventEntryKind, Event: evt})
	ed.postAppend(flushCh, workersGroup)
}

func (ed *eventDispatcher) processIdentify(identify Identify, flushCh chan<- *flushPayload, workersGroup *sync.WaitGroup) {
	if identify.Timestamp == 0 {
		identify.Timestamp = ldtime.UnixMillisNow()
	}
	if identify.InsertID == "" {
		identify.InsertID = newInsertID()
	}
	ed.appendEntry(StoredEntry{Kind: IdentifyEntryKind, Identify: identify})
	ed.postAppend(flushCh, workersGroup)
}

// postAppend applies the capacity trim and the upload-threshold trigger after any append.
func (ed *eventDispatcher) postAppend(flushCh chan<- *flushPayload, workersGroup *sync.WaitGroup) {
	store := ed.config.Store
	if count := store.Count(); count > ed.config.EventMaxCount {
		if removed := store.TrimOldest(ed.config.EventRemoveBatchSize); removed > 0 {
			ed.config.Loggers.Warnf("Event storage exceeded %d entries; dropped the %d oldest (data loss)",
				ed.config.EventMaxCount, removed)
		}
	}
	if store.Count() >= ed.config.UploadThreshold {
		ed.triggerFlush(false, flushCh, workersGroup)
	}
}

func (ed *eventDispatcher) appendAll(events []Event) {
	for _, e := range events {
		ed.appendEntry(StoredEntry{Kind: EventEntryKind, Event: e})
	}
}

func (ed *eventDispatcher) appendEntry(entry StoredEntry) {
	if entry.Kind == EventEntryKind && entry.Event.InsertID == "" {
		entry.Event.InsertID = newInsertID()
	}
	if _, err := ed.config.Store.Append(entry); err != nil {
		// Unrepresentable property values; the entry is dropped and the rest of the queue is
		// unaffected.
		ed.config.Loggers.Warnf("Dropping a queued %s that could not be serialized: %v",
			describeEntryForLog(entry), err)
	}
}

// triggerFlush signals that we would like to upload a batch as soon as possible.
func (ed *eventDispatcher) triggerFlush(explicit bool, flushCh chan<- *flushPayload, workersGroup *sync.WaitGroup) {
	if explicit {
		ed.setSuspended(false)
	} else if ed.isSuspended() {
		// Automatic attempts stay suspended after an unrecoverable upload error, so a dead
		// endpoint or bad API key cannot produce a hot retry loop.
		return
	}
	payload := &flushPayload{deviceID: ed.config.DeviceID, userID: ed.userID}
	workersGroup.Add(1) // Increment the count of active uploads
	select {
	case flushCh <- payload:
		// The upload task will pick this up and read the current head of the queue.
	default:
		// An upload is already in flight and another trigger is already queued; this one is
		// coalesced. The queued upload will observe these entries when it reads the store.
		workersGroup.Done()
	}
}

func (ed *eventDispatcher) handleResult(result EventSenderResult) {
	if result.MustSuspend {
		ed.setSuspended(true)
	}
}

func (ed *eventDispatcher) isSuspended() bool {
	ed.stateLock.Lock()
	defer ed.stateLock.Unlock()
	return ed.suspended
}

func (ed *eventDispatcher) setSuspended(suspended bool) {
	ed.stateLock.Lock()
	defer ed.stateLock.Unlock()
	ed.suspended = suspended
}

func startUploadTask(
	config EventsConfiguration,
	flushCh <-chan *flushPayload,
	workersGroup *sync.WaitGroup,
	retriggerFn func(),
	resultFn func(EventSenderResult),
) {
	t := uploadEventsTask{
		config:      config,
		formatter:   eventOutputFormatter{config: config},
		retriggerFn: retriggerFn,
		resultFn:    resultFn,
	}
	go t.run(flushCh, workersGroup)
}

func (t *uploadEventsTask) run(flushCh <-chan *flushPayload, workersGroup *sync.WaitGroup) {
	for {
		payload, more := <-flushCh
		if !more {
			// Channel has been closed - we're shutting down
			break
		}
		t.attemptFlush(payload)
		workersGroup.Done() // Decrement the count of in-progress uploads
	}
}

// attemptFlush performs one upload cycle: read a batch, send it, and on success remove exactly
// that batch. The store operations are brief; the network round trip holds no locks, so
// application logging calls are never blocked by a slow network.
func (t *uploadEventsTask) attemptFlush(payload *flushPayload) {
	store := t.config.Store
	batch := store.PeekBatch(t.config.MaxBatchSize)
	if len(batch) == 0 {
		return
	}
	data := t.formatter.makeUploadPayload(payload.deviceID, payload.userID, batch)
	if data == nil {
		return
	}
	result := t.config.EventSender.SendEventData(data, len(batch))
	t.resultFn(result)
	if result.Success {
		store.RemoveUpTo(batch[len(batch)-1].ID)
		if len(batch) == t.config.MaxBatchSize {
			// The store may hold more than one batch; ask for another cycle right away instead of
			// waiting for the next natural trigger.
			t.retriggerFn()
		}
	}
	// On failure the batch stays queued; retries are paced by the period/threshold triggers.
}

func newInsertID() string {
	insertID, _ := uuid.NewRandom()
	return insertID.String() // if NewRandom somehow failed, we'll just proceed with an empty string
}
