package main

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ingress serverless alternativo al endpoint del bot: valida, deduplica y
// deja el último estado por match en faceit_match_status. Esa tabla es el
// handoff; este handler nunca bloquea más de un par de segundos.

var (
	db          *pgxpool.Pool
	secretValue = os.Getenv("WEBHOOK_HEADER_VALUE")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func init() {
	// DB opcional (si DATABASE_URL está vacío, igual respondemos 200)
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("DATABASE_URL empty; running without DB")
		return
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		fmt.Println("pgx ParseConfig:", err)
		return
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		fmt.Println("pgxpool New:", err)
		return
	}
	db = pool
}

func readSecret(req events.APIGatewayV2HTTPRequest) string {
	for _, k := range []string{
		strings.ToLower(os.Getenv("WEBHOOK_HEADER_NAME")), // ej: x-faceit-wh
		"x-faceit-wh",
		"x-faceit-secret",
	} {
		if k == "" {
			continue
		}
		if v := req.Headers[k]; v != "" {
			return v
		}
		if v := req.Headers[strings.ToUpper(k)]; v != "" {
			return v
		}
	}
	qname := getenv("WEBHOOK_QUERY_NAME", "wh")
	if v := req.QueryStringParameters[strings.ToLower(qname)]; v != "" {
		return v
	}
	if v := req.QueryStringParameters[qname]; v != "" {
		return v
	}
	return ""
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	ua := ""
	ip := ""
	if req.RequestContext.HTTP.Method != "" {
		ua = req.RequestContext.HTTP.UserAgent
		ip = req.RequestContext.HTTP.SourceIP
	}
	fmt.Printf("webhook hit | path=%s method=%s ip=%s ua=%q b64=%v headers=%d\n",
		req.RawPath, req.RequestContext.HTTP.Method, ip, ua, req.IsBase64Encoded, len(req.Headers))

	// 1) validar secreto
	got := readSecret(req)
	if secretValue == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secretValue)) != 1 {
		fmt.Println("auth: unauthorized (missing/invalid secret)")
		return events.APIGatewayV2HTTPResponse{StatusCode: 401, Body: "unauthorized"}, nil
	}

	// 2) body crudo
	body := req.Body
	if req.IsBase64Encoded {
		dec, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			fmt.Println("body: invalid base64")
			return events.APIGatewayV2HTTPResponse{StatusCode: 400, Body: "invalid base64"}, nil
		}
		body = string(dec)
	}

	// 3) dedup por hash del body (FACEIT entrega at-least-once)
	if db != nil && body != "" {
		sum := sha256.Sum256([]byte(body))
		key := hex.EncodeToString(sum[:])

		dctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if _, err := db.Exec(dctx, `INSERT INTO webhook_dedup(dedup_key) VALUES ($1) ON CONFLICT DO NOTHING`, key); err != nil {
			fmt.Println("dedup insert error:", err)
		}
		cancel()
	}

	// 4) estado del match + notify al bot
	if db != nil && body != "" {
		var evt map[string]any
		_ = json.Unmarshal([]byte(body), &evt)
		_ = processEvent(ctx, db, evt)
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"ok":true}`,
	}, nil
}

func main() { lambda.Start(handler) }

// ---------- dominio mínimo ----------
type Repo struct{ db *pgxpool.Pool }

func (r Repo) UpsertMatchStatus(ctx context.Context, matchID, status string, lastEvent *time.Time) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO faceit_match_status (match_id, status, last_event)
VALUES ($1,$2,$3)
ON CONFLICT (match_id) DO UPDATE
SET status = EXCLUDED.status,
    last_event = EXCLUDED.last_event,
    updated_at = now()
`, matchID, status, lastEvent)
	return err
}

func processEvent(ctx context.Context, pool *pgxpool.Pool, evt map[string]any) error {
	r := Repo{db: pool}
	t := str(get(evt, "event"))
	if t == "" {
		t = str(get(evt, "type"))
	}

	payload := obj(evt["payload"])
	if len(payload) == 0 {
		payload = obj(evt["data"])
	}

	matchID := firstNonEmpty(str(get(payload, "id")), str(get(payload, "match_id")))
	if matchID == "" {
		return nil
	}
	now := time.Now().UTC()

	var err error
	switch t {
	case "match_status_configuring":
		err = r.UpsertMatchStatus(ctx, matchID, "configuring", &now)
	case "match_status_ready":
		err = r.UpsertMatchStatus(ctx, matchID, "ready", &now)
	case "match_status_finished":
		err = r.UpsertMatchStatus(ctx, matchID, "finished", &now)
	case "match_status_cancelled":
		err = r.UpsertMatchStatus(ctx, matchID, "cancelled", &now)
	case "match_status_aborted":
		err = r.UpsertMatchStatus(ctx, matchID, "aborted", &now)
	default:
		return nil
	}
	if err != nil {
		fmt.Println("UpsertMatchStatus:", err)
		return err
	}

	// aviso best-effort para quien haga LISTEN; el handoff real es la tabla
	_, _ = pool.Exec(context.Background(),
		`SELECT pg_notify('faceit_match_event', $1)`, matchID+" "+strings.TrimPrefix(t, "match_status_"),
	)
	return nil
}

// ---------- helpers JSON ----------
func get(m map[string]any, key string) any {
	if m == nil {
		return nil
	}
	return m[key]
}
func obj(v any) map[string]any {
	if o, ok := v.(map[string]any); ok {
		return o
	}
	return map[string]any{}
}
func str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
