package controllers

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tailorrecords/tailor-records-api/services"
)

// Live query names accepted over the stream
const (
	StreamQueryOrders     = "orders"
	StreamQueryCustomers  = "customers"
	StreamQueryPhoneCheck = "phone_check"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-device clients only; the service has no cross-origin surface
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamRequest is a client message selecting or re-parameterizing the live
// query. Each message supersedes the previous one (last-request-wins).
type StreamRequest struct {
	Query     string `json:"query"`
	Status    string `json:"status,omitempty"`
	Search    string `json:"search,omitempty"`
	Phone     string `json:"phone,omitempty"`
	ExcludeID uint   `json:"exclude_id,omitempty"`
}

// StreamMessage is a server message: one query snapshot or one phone-check result
type StreamMessage struct {
	Query      string      `json:"query"`
	Generation uint64      `json:"generation"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// liveStream tracks the active query for one websocket connection. The
// generation counter makes query switches atomic: a snapshot computed for an
// older generation is discarded instead of delivered.
type liveStream struct {
	mu  sync.Mutex
	gen uint64
	req StreamRequest
}

func (s *liveStream) set(req StreamRequest) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.req = req
	return s.gen
}

func (s *liveStream) current() (StreamRequest, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.req, s.gen
}

func (s *liveStream) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// Stream handles GET /api/v1/stream - a websocket session carrying one live
// query at a time. The server pushes the current snapshot immediately after a
// query is selected, then a fresh snapshot after every committed write that
// touches the query's tables.
func Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written its own HTTP error
		return
	}
	defer conn.Close()

	sub := services.GetNotifier().Subscribe(
		services.TableCustomers,
		services.TableMeasurements,
		services.TableMeasurementFields,
		services.TableOrders,
	)
	defer sub.Close()

	checker := services.NewPhoneChecker(services.FindCustomerByPhone)
	defer checker.Close()

	stream := &liveStream{}
	refresh := make(chan uint64, 1)
	done := make(chan struct{})

	// Reader: every client message replaces the active query
	go func() {
		defer close(done)
		for {
			var req StreamRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}

			gen := stream.set(req)
			if req.Query == StreamQueryPhoneCheck {
				checker.Update(req.Phone, req.ExcludeID)
				continue
			}
			select {
			case refresh <- gen:
			default:
			}
		}
	}()

	for {
		select {
		case <-done:
			return

		case <-refresh:
			if !writeSnapshot(conn, stream) {
				return
			}

		case _, ok := <-sub.Events():
			if !ok {
				return
			}
			if !writeSnapshot(conn, stream) {
				return
			}

		case result, ok := <-checker.Results():
			if !ok {
				return
			}
			req, gen := stream.current()
			if req.Query != StreamQueryPhoneCheck {
				// The client moved on to another query; drop the late result
				continue
			}
			msg := StreamMessage{
				Query:      StreamQueryPhoneCheck,
				Generation: gen,
				Data:       result,
			}
			if result.Err != nil {
				msg.Data = nil
				msg.Error = "failed to check phone number"
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

// writeSnapshot recomputes and delivers the active query's snapshot. Returns
// false when the connection is gone. A snapshot whose generation was
// superseded while computing is silently discarded.
func writeSnapshot(conn *websocket.Conn, stream *liveStream) bool {
	req, gen := stream.current()

	var data interface{}
	var queryErr error
	switch req.Query {
	case StreamQueryOrders:
		data, queryErr = services.OrdersWithCustomers(req.Status)
	case StreamQueryCustomers:
		data, queryErr = services.CustomersMatching(req.Search)
	default:
		// No active snapshot query yet (or phone_check, which replies through
		// the checker)
		return true
	}

	if !stream.isCurrent(gen) {
		// Superseded mid-compute; the newer request's refresh will deliver
		return true
	}

	msg := StreamMessage{Query: req.Query, Generation: gen, Data: data}
	if queryErr != nil {
		log.Printf("stream query %q failed: %v", req.Query, queryErr)
		msg.Data = nil
		msg.Error = "query failed"
	}
	return conn.WriteJSON(msg) == nil
}
