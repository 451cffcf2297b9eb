package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"smart-recipe-backend/internal/pkg/common"
)

// MemoryStore 記憶體文件存儲
// 未設定 Firestore 專案時的備援實作，也供測試使用
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemoryStore 建立記憶體存儲
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
	}
}

// Create 建立文件，id 為空時自動產生
func (s *MemoryStore) Create(_ context.Context, collection, id string, data Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = common.GenerateUUID()
	}

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]Document)
		s.collections[collection] = docs
	}

	doc := cloneDocument(data)
	doc["id"] = id
	docs[id] = doc
	return id, nil
}

// Get 讀取單筆文件
func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, common.NewNotFoundError(collection, id)
	}
	return cloneDocument(doc), nil
}

// Update 合併更新文件欄位
func (s *MemoryStore) Update(_ context.Context, collection, id string, data Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return common.NewNotFoundError(collection, id)
	}

	for k, v := range cloneDocument(data) {
		doc[k] = v
	}
	doc["id"] = id
	return nil
}

// Delete 刪除文件
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return common.NewNotFoundError(collection, id)
	}
	delete(s.collections[collection], id)
	return nil
}

// List 列出集合中的所有文件
func (s *MemoryStore) List(_ context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		docs = append(docs, cloneDocument(doc))
	}

	// map 迭代順序不固定，依 id 排序讓結果可重現
	sort.Slice(docs, func(i, j int) bool {
		a, _ := docs[i]["id"].(string)
		b, _ := docs[j]["id"].(string)
		return a < b
	})
	return docs, nil
}

// Query 依條件查詢文件
func (s *MemoryStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	docs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	var matched []Document
	for _, doc := range docs {
		ok := true
		for _, f := range filters {
			if !matchFilter(doc[f.Field], f.Op, f.Value) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

// Close 實現 DocumentStore 介面
func (s *MemoryStore) Close() error {
	return nil
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case Document:
		return cloneDocument(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func matchFilter(fieldValue interface{}, op string, want interface{}) bool {
	// 數值比較統一轉成 float64；其餘按字串比較
	fNum, fIsNum := toFloat(fieldValue)
	wNum, wIsNum := toFloat(want)
	if fIsNum && wIsNum {
		switch op {
		case "==":
			return fNum == wNum
		case "<":
			return fNum < wNum
		case "<=":
			return fNum <= wNum
		case ">":
			return fNum > wNum
		case ">=":
			return fNum >= wNum
		}
		return false
	}

	fStr, fIsStr := fieldValue.(string)
	wStr, wIsStr := want.(string)
	if fIsStr && wIsStr {
		switch op {
		case "==":
			return fStr == wStr
		case "<":
			return fStr < wStr
		case "<=":
			return fStr <= wStr
		case ">":
			return fStr > wStr
		case ">=":
			return fStr >= wStr
		}
		return false
	}

	if op == "==" {
		return fieldValue == want
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
