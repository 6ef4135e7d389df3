package store

import "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

func getStr(m map[string]types.AttributeValue, key string) string {
	if v, ok := m[key]; ok {
		switch t := v.(type) {
		case *types.AttributeValueMemberS:
			return t.Value
		case *types.AttributeValueMemberN:
			return t.Value
		}
	}
	return ""
}
