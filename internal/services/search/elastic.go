package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"oldphonedeals_back_end/internal/database"
	"oldphonedeals_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const phonesIndex = "phones"

//
// --- INDEXATION DANS ELASTICSEARCH ---
//

// IndexPhone indexe (ou réindexe) une annonce dans Elasticsearch
func IndexPhone(p models.Phone) {
	if database.Elastic == nil {
		log.Println("⚠️ Elastic non initialisé, impossible d'indexer:", p.Title)
		return
	}

	data, _ := json.Marshal(p)
	req := esapi.IndexRequest{
		Index:      phonesIndex,
		DocumentID: p.ID.String(),
		Body:       bytes.NewReader(data),
		Refresh:    "true", // rend la donnée immédiatement visible
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", p.Title, res.String())
	} else {
		log.Printf("🔍 Annonce indexée dans Elasticsearch: %s", p.Title)
	}
}

// RemovePhone retire une annonce de l'index (désactivation admin)
func RemovePhone(phoneID string) {
	if database.Elastic == nil {
		return
	}

	req := esapi.DeleteRequest{Index: phonesIndex, DocumentID: phoneID}
	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur suppression index Elastic:", err)
		return
	}
	defer res.Body.Close()
}

//
// --- RECHERCHE DANS ELASTICSEARCH ---
//

type Query struct {
	Term     string
	Brand    string
	MinPrice float64
	MaxPrice float64
	Page     int
	Limit    int
}

// SearchPhones interroge l'index par titre/marque, avec filtres prix et pagination
func SearchPhones(ctx context.Context, q Query) ([]models.Phone, error) {
	if database.Elastic == nil {
		return nil, fmt.Errorf("client Elasticsearch non initialisé")
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}

	must := []map[string]any{}
	if q.Term != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  q.Term,
				"fields": []string{"title", "brand"},
			},
		})
	}

	filter := []map[string]any{
		{"term": map[string]any{"disabled": false}},
	}
	if q.Brand != "" {
		filter = append(filter, map[string]any{
			"term": map[string]any{"brand.keyword": q.Brand},
		})
	}
	if q.MinPrice > 0 || q.MaxPrice > 0 {
		priceRange := map[string]any{}
		if q.MinPrice > 0 {
			priceRange["gte"] = q.MinPrice
		}
		if q.MaxPrice > 0 {
			priceRange["lte"] = q.MaxPrice
		}
		filter = append(filter, map[string]any{"range": map[string]any{"price": priceRange}})
	}

	body := map[string]any{
		"from": (q.Page - 1) * q.Limit,
		"size": q.Limit,
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": filter,
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{phonesIndex},
		Body:  &buf,
	}
	res, err := req.Do(ctx, database.Elastic)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]any
		json.NewDecoder(res.Body).Decode(&e)
		log.Printf("❌ Elasticsearch erreur: %+v", e)
		return nil, fmt.Errorf("index non trouvé ou vide")
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Phone `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %v", err)
	}

	phones := []models.Phone{}
	for _, hit := range r.Hits.Hits {
		phones = append(phones, hit.Source)
	}
	return phones, nil
}
