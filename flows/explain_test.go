package flows

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genflow/genflow/model"
)

func TestExplainFlowDefaultPrompt(t *testing.T) {
	mock := model.NewMockModel("test", "mock")
	mock.AddResponse(defaultExplainPrompt, "Generative AI predicts tokens.")

	explainFlow := NewExplainFlow(mock)

	resp, err := explainFlow.Run(context.Background(), ExplainRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Generative AI predicts tokens.", resp.Explanation)
}

func TestExplainFlowCustomPrompt(t *testing.T) {
	mock := model.NewMockModel("test", "mock")
	mock.AddResponse("What is a goroutine?", "A lightweight thread managed by the Go runtime.")

	explainFlow := NewExplainFlow(mock)

	resp, err := explainFlow.Run(context.Background(), ExplainRequest{Prompt: "What is a goroutine?"})
	require.NoError(t, err)
	assert.Contains(t, resp.Explanation, "goroutine")
}

func TestExplainFlowEmptyText(t *testing.T) {
	mock := model.NewMockModel("test", "mock")
	mock.SetDefaultResponse("")

	explainFlow := NewExplainFlow(mock)

	_, err := explainFlow.Run(context.Background(), ExplainRequest{})
	assert.Error(t, err)
}

func TestDescribeImageFlow(t *testing.T) {
	mock := model.NewMockModel("test", "mock")
	mock.AddResponse(defaultDescribePrompt, "A cat on a windowsill.")

	describeFlow := NewDescribeImageFlow(mock)

	resp, err := describeFlow.Run(context.Background(), DescribeImageRequest{
		Image:    base64.StdEncoding.EncodeToString([]byte("fake image bytes")),
		MIMEType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "A cat on a windowsill.", resp.Description)
}

func TestDescribeImageFlowInvalidPayload(t *testing.T) {
	describeFlow := NewDescribeImageFlow(model.NewMockModel("test", "mock"))

	_, err := describeFlow.Run(context.Background(), DescribeImageRequest{
		Image:    "%%% not base64 %%%",
		MIMEType: "image/png",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image payload")
}
