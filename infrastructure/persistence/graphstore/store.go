// Package graphstore implements application/ports.SearchableStore against
// Neo4j (spec §6's "persisted graph format"): Memory/Tag nodes, TAGGED and
// ASSOCIATED relationships, a singleton Policy node, and a Snapshot node
// holding the canonical s-expression dump that Load actually reconstructs
// state from. The Memory/Tag/relationship graph is written on every Save
// so the schema spec names is real and queryable (full-text search,
// ad-hoc Cypher exploration), even though Load itself only needs the
// Snapshot.
package graphstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"backend2/application/ports"
	"backend2/domain/config"
	"backend2/domain/core/aggregates"
	"backend2/infrastructure/persistence/statedto"
	"backend2/pkg/utils"
)

// Store is a Neo4j-backed application/ports.SearchableStore.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

// New opens a driver connection to uri, verifies connectivity, and
// ensures the indexes spec §6 requires exist.
func New(ctx context.Context, uri, user, password, database string, logger *zap.Logger) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("graphstore: create driver: %w: %w", ports.ErrStoreUnavailable, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("graphstore: verify connectivity: %w: %w", ports.ErrStoreUnavailable, err)
	}

	s := &Store{driver: driver, database: database, logger: logger}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	statements := []string{
		"CREATE INDEX memory_id IF NOT EXISTS FOR (m:Memory) ON (m.id)",
		"CREATE INDEX memory_timestamp IF NOT EXISTS FOR (m:Memory) ON (m.timestamp)",
		"CREATE INDEX memory_type IF NOT EXISTS FOR (m:Memory) ON (m.type)",
		"CREATE INDEX tag_name IF NOT EXISTS FOR (t:Tag) ON (t.name)",
		"CREATE FULLTEXT INDEX memory_text IF NOT EXISTS FOR (m:Memory) ON EACH [m.text]",
	}
	for _, stmt := range statements {
		if _, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return tx.Run(ctx, stmt, nil)
		}); err != nil {
			return fmt.Errorf("graphstore: create index: %w", err)
		}
	}
	return nil
}

// Load restores state from the Snapshot node's s-expression dump, or
// returns a fresh state seeded with policy if no snapshot exists yet.
func (s *Store) Load(ctx context.Context, policy *config.Policy) (*aggregates.State, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, "MATCH (s:Snapshot) RETURN s.sexpr AS sexpr ORDER BY s.timestamp DESC LIMIT 1", nil)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, nil // no snapshot yet
		}
		sexpr, _ := record.Get("sexpr")
		return sexpr, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graphstore: read snapshot: %w", err)
	}
	if result == nil {
		return aggregates.NewState(policy, utils.NowMillis()), nil
	}

	dto, err := decodeSnapshot(result.(string))
	if err != nil {
		return nil, err
	}
	if dto.Policy == nil {
		dto.Policy = policy
	}
	return statedto.ToState(dto)
}

// Save clears and recreates the whole Memory/Tag/ASSOCIATED graph plus the
// Policy and Snapshot nodes in a single transaction (spec §6).
func (s *Store) Save(ctx context.Context, state *aggregates.State) error {
	dto := statedto.FromState(state)

	policyJSON, err := json.Marshal(dto.Policy)
	if err != nil {
		return fmt.Errorf("graphstore: encode policy: %w", err)
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
			return nil, err
		}

		for _, item := range dto.Items {
			if _, err := tx.Run(ctx, `
				CREATE (m:Memory {
					id: $id, text: $text, type: $type, importance: $importance,
					timestamp: $createdAt, lastAccessed: $lastAccessedAt,
					accessCount: $accessCount, recallCount: $accessCount,
					successCount: $success, failCount: $fail, energy: $energy, ttl: $ttl
				})
				WITH m
				UNWIND $tags AS tagName
				MERGE (t:Tag {name: tagName})
				MERGE (m)-[:TAGGED]->(t)
			`, map[string]any{
				"id": item.ID, "text": item.Text, "type": item.Type,
				"importance": item.Importance, "createdAt": item.CreatedAt,
				"lastAccessedAt": item.LastAccessedAt, "accessCount": item.AccessCount,
				"success": item.Success, "fail": item.Fail, "energy": item.Energy,
				"ttl": item.TTL, "tags": item.Tags,
			}); err != nil {
				return nil, err
			}
		}

		for _, edge := range dto.Edges {
			if _, err := tx.Run(ctx, `
				MATCH (from:Memory {id: $from}), (to:Memory {id: $to})
				CREATE (from)-[:ASSOCIATED {
					relation: $relation, weight: $weight, lastReinforcedAt: $lastReinforcedAt
				}]->(to)
			`, map[string]any{
				"from": edge.From, "to": edge.To, "relation": edge.Relation,
				"weight": edge.Weight, "lastReinforcedAt": edge.LastReinforcedAt,
			}); err != nil {
				return nil, err
			}
		}

		if _, err := tx.Run(ctx, "CREATE (:Policy {state: $state})", map[string]any{
			"state": string(policyJSON),
		}); err != nil {
			return nil, err
		}

		_, err := tx.Run(ctx, "CREATE (:Snapshot {sexpr: $sexpr, timestamp: $timestamp})", map[string]any{
			"sexpr":     encodeSnapshot(dto),
			"timestamp": state.BornAt(),
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("graphstore: save transaction: %w", err)
	}

	s.logger.Debug("persisted state", zap.Int("items", len(dto.Items)), zap.Int("edges", len(dto.Edges)))
	return nil
}

// SearchText runs a full-text query against the Memory(text) index,
// returning matching item ids. Nothing in this repository calls it;
// recall seeds activation in-process from the loaded State.
func (s *Store) SearchText(ctx context.Context, query string, limit int) ([]string, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			CALL db.index.fulltext.queryNodes("memory_text", $query) YIELD node, score
			RETURN node.id AS id ORDER BY score DESC LIMIT $limit
		`, map[string]any{"query": query, "limit": limit})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(records))
		for _, r := range records {
			id, _ := r.Get("id")
			ids = append(ids, id.(string))
		}
		return ids, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graphstore: search text: %w", err)
	}
	return result.([]string), nil
}

// Close releases the driver's connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
