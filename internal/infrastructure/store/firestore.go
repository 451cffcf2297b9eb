package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"smart-recipe-backend/internal/pkg/common"
)

// FirestoreStore Firestore 文件資料庫實作
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore 建立 Firestore 客戶端
// credentialsFile 為空時改用環境預設憑證
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, common.NewStoreError("connect", err)
	}

	return &FirestoreStore{client: client}, nil
}

// Create 建立文件，id 為空時自動產生
func (s *FirestoreStore) Create(ctx context.Context, collection, id string, data Document) (string, error) {
	if id == "" {
		id = common.GenerateUUID()
	}
	data["id"] = id

	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return "", common.NewStoreError("create", err)
	}
	return id, nil
}

// Get 讀取單筆文件
func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, common.NewNotFoundError(collection, id)
		}
		return nil, common.NewStoreError("get", err)
	}

	doc := snap.Data()
	doc["id"] = snap.Ref.ID
	return doc, nil
}

// Update 合併更新文件欄位
func (s *FirestoreStore) Update(ctx context.Context, collection, id string, data Document) error {
	ref := s.client.Collection(collection).Doc(id)

	// 先確認文件存在，Set MergeAll 對不存在的文件會靜默建立
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return common.NewNotFoundError(collection, id)
		}
		return common.NewStoreError("update", err)
	}

	if _, err := ref.Set(ctx, data, firestore.MergeAll); err != nil {
		return common.NewStoreError("update", err)
	}
	return nil
}

// Delete 刪除文件
func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	ref := s.client.Collection(collection).Doc(id)

	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return common.NewNotFoundError(collection, id)
		}
		return common.NewStoreError("delete", err)
	}

	if _, err := ref.Delete(ctx); err != nil {
		return common.NewStoreError("delete", err)
	}
	return nil
}

// List 列出集合中的所有文件
func (s *FirestoreStore) List(ctx context.Context, collection string) ([]Document, error) {
	return s.runQuery(ctx, s.client.Collection(collection).Query)
}

// Query 依條件查詢文件
func (s *FirestoreStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, f.Op, f.Value)
	}
	return s.runQuery(ctx, q)
}

func (s *FirestoreStore) runQuery(ctx context.Context, q firestore.Query) ([]Document, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, common.NewStoreError("query", err)
		}
		doc := snap.Data()
		doc["id"] = snap.Ref.ID
		docs = append(docs, doc)
	}
	return docs, nil
}

// Close 關閉客戶端連線
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
