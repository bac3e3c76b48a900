package store

import (
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// IsDeleted checks if an item has an expired TTL (is marked for deletion).
func IsDeleted(item map[string]types.AttributeValue) bool {
	return isExpired(item, time.Now())
}

func isExpired(item map[string]types.AttributeValue, now time.Time) bool {
	ttlAttr, exists := item["ttl"]
	if !exists {
		return false // No TTL = active
	}
	ttlNum, ok := ttlAttr.(*types.AttributeValueMemberN)
	if !ok {
		return false
	}
	ttl, err := strconv.ParseInt(ttlNum.Value, 10, 64)
	if err != nil {
		return false
	}
	return ttl <= now.Unix()
}

// ttlNames returns the expression attribute names used by TTL conditions.
func ttlNames() map[string]string {
	return map[string]string{"#ttl": "ttl", "#version": "version"}
}

// nowValue returns the :now expression attribute value.
func nowValue(now time.Time) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)}
}
