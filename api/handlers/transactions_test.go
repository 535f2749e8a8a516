package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"powledger/node"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(n Node) *gin.Engine {
	r := gin.New()
	r.GET("/mine", HandleMine(n))
	r.GET("/chain", HandleChain(n))
	r.GET("/blocks/:hash", HandleGetBlockByHash(n))
	r.POST("/transactions/new", HandleNewTransaction(n))
	r.GET("/transactions/pending", HandlePendingTransactions(n))
	r.POST("/nodes/register", HandleRegisterNodes(n))
	r.GET("/nodes", HandleListNodes(n))
	r.GET("/nodes/resolve", HandleResolve(n))
	return r
}

func TestHandleNewTransaction(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedInBody string
	}{
		{
			name:           "valid transaction",
			body:           `{"sender":"alice","recipient":"bob","amount":5}`,
			expectedStatus: http.StatusCreated,
			expectedInBody: "Transaction will be added to Block 2",
		},
		{
			name:           "zero amount is present",
			body:           `{"sender":"alice","recipient":"bob","amount":0}`,
			expectedStatus: http.StatusCreated,
			expectedInBody: "Block 2",
		},
		{
			name:           "missing amount",
			body:           `{"sender":"alice","recipient":"bob"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "Missing values",
		},
		{
			name:           "null sender",
			body:           `{"sender":null,"recipient":"bob","amount":1}`,
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "Missing values",
		},
		{
			name:           "empty recipient",
			body:           `{"sender":"alice","recipient":"","amount":1}`,
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "missing required field",
		},
		{
			name:           "invalid JSON",
			body:           "invalid json",
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "Invalid JSON format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := node.NewFullNode(node.DefaultConfig())
			router := newTestRouter(n)

			req := httptest.NewRequest(http.MethodPost, "/transactions/new", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.expectedInBody) {
				t.Errorf("Expected response body to contain %q, got %q", tt.expectedInBody, w.Body.String())
			}

			wantPending := 0
			if tt.expectedStatus == http.StatusCreated {
				wantPending = 1
			}
			if got := len(n.PendingTransactions()); got != wantPending {
				t.Errorf("Expected %d pending transactions, got %d", wantPending, got)
			}
		})
	}
}

func TestHandleMineAndChain(t *testing.T) {
	config := node.DefaultConfig()
	config.NodeID = "handler-node"
	n := node.NewFullNode(config)
	router := newTestRouter(n)

	body := bytes.NewBufferString(`{"sender":"alice","recipient":"bob","amount":2}`)
	req := httptest.NewRequest(http.MethodPost, "/transactions/new", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mine", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from /mine, got %d", w.Code)
	}

	var mined struct {
		Message      string `json:"message"`
		Index        int64  `json:"index"`
		Proof        int64  `json:"proof"`
		PreviousHash string `json:"previous_hash"`
		Transactions []struct {
			Sender    string `json:"sender"`
			Recipient string `json:"recipient"`
		} `json:"transactions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&mined); err != nil {
		t.Fatalf("Failed to decode /mine response: %v", err)
	}
	if mined.Message != "New Block Forged" || mined.Index != 2 {
		t.Errorf("Unexpected /mine response: %+v", mined)
	}
	if len(mined.Transactions) != 2 || mined.Transactions[1].Recipient != "handler-node" {
		t.Errorf("Expected submitted tx plus reward, got %+v", mined.Transactions)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chain", nil))
	var chain struct {
		Chain  []json.RawMessage `json:"chain"`
		Length int               `json:"length"`
	}
	if err := json.NewDecoder(w.Body).Decode(&chain); err != nil {
		t.Fatalf("Failed to decode /chain response: %v", err)
	}
	if chain.Length != 2 || len(chain.Chain) != 2 {
		t.Errorf("Expected chain of length 2, got length=%d blocks=%d", chain.Length, len(chain.Chain))
	}
}

func TestHandleGetBlockByHash(t *testing.T) {
	n := node.NewFullNode(node.DefaultConfig())
	router := newTestRouter(n)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{name: "bad hash", path: "/blocks/xyz", expectedStatus: http.StatusBadRequest},
		{name: "unknown hash", path: "/blocks/" + strings.Repeat("ab", 32), expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestHandleRegisterNodes(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedNodes  int
	}{
		{name: "missing nodes", body: `{}`, expectedStatus: http.StatusBadRequest},
		{name: "empty list", body: `{"nodes":[]}`, expectedStatus: http.StatusBadRequest},
		{name: "all malformed", body: `{"nodes":["nohost"]}`, expectedStatus: http.StatusBadRequest},
		{
			name:           "duplicates collapse",
			body:           `{"nodes":["http://10.0.0.1:5000/","10.0.0.1:5000"]}`,
			expectedStatus: http.StatusCreated,
			expectedNodes:  1,
		},
		{
			name:           "partial batch",
			body:           `{"nodes":["10.0.0.1:5000","bad host","10.0.0.2:5000"]}`,
			expectedStatus: http.StatusCreated,
			expectedNodes:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := node.NewFullNode(node.DefaultConfig())
			router := newTestRouter(n)

			req := httptest.NewRequest(http.MethodPost, "/nodes/register", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var resp struct {
				TotalNodes []string `json:"total_nodes"`
				Rejected   []string `json:"rejected"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if len(resp.TotalNodes) != tt.expectedNodes {
				t.Errorf("Expected %d nodes, got %v", tt.expectedNodes, resp.TotalNodes)
			}
			if strings.Contains(tt.body, "bad host") && len(resp.Rejected) != 1 {
				t.Errorf("Expected one rejected entry, got %v", resp.Rejected)
			}
		})
	}
}

func TestHandleResolveWithoutPeers(t *testing.T) {
	n := node.NewFullNode(node.DefaultConfig())
	router := newTestRouter(n)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nodes/resolve", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Message  string `json:"message"`
		Replaced bool   `json:"replaced"`
		Length   int    `json:"length"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Replaced || resp.Message != "Our chain is authoritative" || resp.Length != 1 {
		t.Errorf("Unexpected resolve response: %+v", resp)
	}
}
