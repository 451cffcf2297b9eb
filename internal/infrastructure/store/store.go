package store

import (
	"context"
	"encoding/json"

	"smart-recipe-backend/internal/pkg/common"
)

// Document 文件資料庫中的一筆文件
type Document = map[string]interface{}

// Filter 查詢條件
type Filter struct {
	Field string
	Op    string // "==", "<", "<=", ">", ">="
	Value interface{}
}

// DocumentStore 文件資料庫介面
// id 為空字串時由實作自動產生；所有文件都帶有 "id" 欄位
type DocumentStore interface {
	Create(ctx context.Context, collection, id string, data Document) (string, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Update(ctx context.Context, collection, id string, data Document) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]Document, error)
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Close() error
}

// Encode 將結構體轉換為文件（經由 JSON 欄位名稱）
func Encode(v interface{}) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, common.NewStoreError("encode", err)
	}
	var doc Document
	// 數值欄位需落成 float64；json.Number 會被後端視為字串序列化
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, common.NewStoreError("encode", err)
	}
	return doc, nil
}

// Decode 將文件轉換回結構體
func Decode(doc Document, v interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return common.NewStoreError("decode", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return common.NewStoreError("decode", err)
	}
	return nil
}

// DecodeAll 將多筆文件轉換回結構體切片
func DecodeAll(docs []Document, v interface{}) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return common.NewStoreError("decode", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return common.NewStoreError("decode", err)
	}
	return nil
}
