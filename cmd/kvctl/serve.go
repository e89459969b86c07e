package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/module/kvengine/arena"
	"github.com/module/kvengine/kernel"
	"github.com/module/kvengine/kvstore"
	"github.com/module/kvengine/metrics"
	"github.com/module/kvengine/strided"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the database and Prometheus metrics over HTTP until interrupted",
	Long: `serve keeps a single database resident for the life of the process, exposing
GET/PUT over /kv/{key} and Prometheus text metrics at /metrics -- the HTTP
counterpart of the load-operate-save cycle every other kvctl subcommand
runs once and exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		mux := http.NewServeMux()
		mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.WritePrometheus(w)
		})
		mux.HandleFunc("/kv/", func(w http.ResponseWriter, r *http.Request) {
			serveKV(w, r, s)
		})

		addr := serveAddr
		if viper.IsSet("addr") {
			addr = viper.GetString("addr")
		}
		fmt.Printf("kvctl serve listening on %s\n", addr)
		return http.ListenAndServe(addr, mux)
	},
}

func serveKV(w http.ResponseWriter, r *http.Request, s *session) {
	key, err := strconv.ParseInt(r.URL.Path[len("/kv/"):], 10, 64)
	if err != nil {
		http.Error(w, "key must be an integer", http.StatusBadRequest)
		return
	}
	col := s.collection()

	switch r.Method {
	case http.MethodGet:
		a := arena.New()
		defer a.Release()
		res, kerr := s.kernel.Read(kernel.Tasks{
			Count:       1,
			Collections: strided.Const(col),
			Keys:        strided.Const(kvstore.Key(key)),
		}, nil, 0, false, a)
		if kerr != nil {
			http.Error(w, kerr.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if !res.Presences[0] {
			json.NewEncoder(w).Encode(map[string]any{"found": false})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"found": true, "value": string(res.Value(0))})

	case http.MethodPut:
		var body struct {
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "malformed JSON body", http.StatusBadRequest)
			return
		}
		kerr := s.kernel.Write(kernel.Tasks{
			Count:       1,
			Collections: strided.Const(col),
			Keys:        strided.Const(kvstore.Key(key)),
			Values:      strided.Const([]byte(body.Value)),
		}, nil, 0)
		if kerr != nil {
			http.Error(w, kerr.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "0.0.0.0:8080", "address to listen on")
}
