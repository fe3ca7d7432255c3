// Command transitgraphd is a debug/inspection HTTP server exposing the
// sssp_weights, sp_weight, sp_path and get_node transitgraph operations
// as JSON endpoints, the routing analog of the teacher's own cmd/server
// GTFS-zip server. od_matrix and extend_with_transit have no endpoint;
// the graph is built once at startup.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tgrcode.com/transitgraph"
	"tgrcode.com/transitgraph/common"
)

func main() {
	flag_port := flag.String("port", "8080", "Port to listen on for the HTTP server")
	flag_gtfs := flag.String("gtfs", "", "Path to a GTFS directory")
	flag_pbf := flag.String("pbf", "", "Path to an OSM PBF extract")
	flag_departure := flag.Int("departure", 0, "Window start, seconds since midnight")
	flag_duration := flag.Int("duration", 86400, "Window duration in seconds")
	flag_weekday := flag.String("weekday", "monday", "Service weekday to filter GTFS trips to")
	flag.Parse()

	if *flag_gtfs == "" || *flag_pbf == "" {
		fmt.Println("Usage: transitgraphd --gtfs=<dir> --pbf=<file> [--port=8080] [--departure=0] [--duration=86400] [--weekday=monday]")
		return
	}

	graph, err := transitgraph.CreateGraph(*flag_gtfs, *flag_pbf, *flag_departure, *flag_duration, *flag_weekday, common.DefaultSink)
	if err != nil {
		log.Fatalf("error creating graph: %v", err)
	}

	startServer(graph, *flag_port)
}

func startServer(graph *transitgraph.Graph, port string) {
	router := mux.NewRouter()

	router.HandleFunc("/sssp_weights", func(w http.ResponseWriter, r *http.Request) {
		t0, lat, lon, ok := parseOriginQuery(w, r)
		if !ok {
			return
		}
		weights, err := transitgraph.SSSPWeights(graph, t0, lat, lon)
		writeJSON(w, weights, err)
	})

	router.HandleFunc("/sp_weight", func(w http.ResponseWriter, r *http.Request) {
		t0, srcLat, srcLon, dstLat, dstLon, ok := parseODQuery(w, r)
		if !ok {
			return
		}
		weight, err := transitgraph.SPWeight(graph, t0, srcLat, srcLon, dstLat, dstLon)
		writeJSON(w, struct {
			Weight float64 `json:"weight_seconds"`
		}{weight}, err)
	})

	router.HandleFunc("/sp_path", func(w http.ResponseWriter, r *http.Request) {
		t0, srcLat, srcLon, dstLat, dstLon, ok := parseODQuery(w, r)
		if !ok {
			return
		}
		path, err := transitgraph.SPPath(graph, t0, srcLat, srcLon, dstLat, dstLon)
		writeJSON(w, struct {
			Path []int `json:"path"`
		}{path}, err)
	})

	router.HandleFunc("/node/{index}", func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(mux.Vars(r)["index"])
		if err != nil {
			http.Error(w, "invalid index", http.StatusBadRequest)
			return
		}
		node, ok := transitgraph.GetNode(graph, index)
		if !ok {
			http.Error(w, "node not found", http.StatusNotFound)
			return
		}
		writeJSON(w, node, nil)
	})

	addr := ":" + port
	log.Printf("Starting server at %s", addr)
	log.Fatal(http.ListenAndServe(addr, router))
}

func parseOriginQuery(w http.ResponseWriter, r *http.Request) (t0, lat, lon float64, ok bool) {
	q := r.URL.Query()
	t0, err1 := strconv.ParseFloat(q.Get("t0"), 64)
	lat, err2 := strconv.ParseFloat(q.Get("lat"), 64)
	lon, err3 := strconv.ParseFloat(q.Get("lon"), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		http.Error(w, "expected t0, lat, lon query parameters", http.StatusBadRequest)
		return 0, 0, 0, false
	}
	return t0, lat, lon, true
}

func parseODQuery(w http.ResponseWriter, r *http.Request) (t0, srcLat, srcLon, dstLat, dstLon float64, ok bool) {
	q := r.URL.Query()
	values := []struct {
		name string
		dst  *float64
	}{
		{"t0", &t0}, {"src_lat", &srcLat}, {"src_lon", &srcLon},
		{"dst_lat", &dstLat}, {"dst_lon", &dstLon},
	}
	for _, v := range values {
		parsed, err := strconv.ParseFloat(q.Get(v.name), 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("missing or invalid query parameter %q", v.name), http.StatusBadRequest)
			return 0, 0, 0, 0, 0, false
		}
		*v.dst = parsed
	}
	return t0, srcLat, srcLon, dstLat, dstLon, true
}

func writeJSON(w http.ResponseWriter, payload interface{}, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if encErr := json.NewEncoder(w).Encode(payload); encErr != nil {
		log.Printf("error encoding response: %v", encErr)
	}
}
