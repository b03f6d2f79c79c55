package tenant

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const DefaultTable = "ClientLambdas"

// getItemAPI is satisfied by *dynamodb.Client.
type getItemAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type itemKey struct {
	ClientID   string `dynamodbav:"clientId"`
	LambdaName string `dynamodbav:"lambdaName"`
}

type item struct {
	ClientID   string     `dynamodbav:"clientId"`
	LambdaName string     `dynamodbav:"lambdaName"`
	Config     itemConfig `dynamodbav:"config"`
}

type itemConfig struct {
	QuiSommesNous   string `dynamodbav:"quiSommesNous"`
	InfosSupp       string `dynamodbav:"infosSupp"`
	Hashtags        string `dynamodbav:"hashtags"`
	GPTPrompt       string `dynamodbav:"gptPrompt"`
	UGSEtProtection string `dynamodbav:"ugsEtProtection"`
}

var _ Provider = (*DynamoProvider)(nil)

type DynamoProvider struct {
	api   getItemAPI
	table string
}

func NewDynamoProvider(api getItemAPI, table string) *DynamoProvider {
	if table == "" {
		table = DefaultTable
	}
	return &DynamoProvider{api: api, table: table}
}

func (p *DynamoProvider) Fetch(ctx context.Context, key Key) (Config, error) {
	k, err := attributevalue.MarshalMap(itemKey{ClientID: key.ClientID, LambdaName: key.JobName})
	if err != nil {
		return Config{}, fmt.Errorf("clé DynamoDB invalide (%s) : %v : %w", key, err, ErrConfiguration)
	}
	out, err := p.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(p.table),
		Key:       k,
	})
	if err != nil {
		return Config{}, fmt.Errorf("lecture DynamoDB échouée (%s/%s) : %v : %w", p.table, key, err, ErrConfiguration)
	}
	if len(out.Item) == 0 {
		return Config{}, fmt.Errorf("%s/%s : %w", p.table, key, ErrNotFound)
	}
	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return Config{}, fmt.Errorf("enregistrement DynamoDB illisible (%s) : %v : %w", key, err, ErrConfiguration)
	}
	cfg, err := Config{
		QuiSommesNous:  it.Config.QuiSommesNous,
		InfosSupp:      it.Config.InfosSupp,
		Hashtags:       it.Config.Hashtags,
		PromptTemplate: it.Config.GPTPrompt,
		UGSTemplate:    it.Config.UGSEtProtection,
	}.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("%s : %w", key, err)
	}
	return cfg, nil
}
