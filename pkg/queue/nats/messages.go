package nats

import (
	"encoding/json"

	"github.com/oyabun/tendon/pkg/model"
)

// Subject constants
const (
	SubjectRecordWrite  = "tendon.records.write"
	SubjectProfileWrite = "tendon.profiles.write"
	SubjectFeatureWrite = "tendon.features.write"
)

// RecordBatchMsg represents a batch training-record write request
type RecordBatchMsg struct {
	Records []model.TrainingRecord `json:"records"`
}

// ProfileBatchMsg represents a batch athlete-profile write request
type ProfileBatchMsg struct {
	Profiles []model.AthleteProfile `json:"profiles"`
}

// FeatureBatchMsg represents a batch feature-vector write request
type FeatureBatchMsg struct {
	Vectors []model.FeatureVector `json:"vectors"`
}

// Encode serializes a message to JSON bytes
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeRecordBatch deserializes a RecordBatchMsg from JSON bytes
func DecodeRecordBatch(data []byte) (*RecordBatchMsg, error) {
	var msg RecordBatchMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DecodeProfileBatch deserializes a ProfileBatchMsg from JSON bytes
func DecodeProfileBatch(data []byte) (*ProfileBatchMsg, error) {
	var msg ProfileBatchMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DecodeFeatureBatch deserializes a FeatureBatchMsg from JSON bytes
func DecodeFeatureBatch(data []byte) (*FeatureBatchMsg, error) {
	var msg FeatureBatchMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
