package mocks

import (
	"context"

	"github.com/Behyna/gem-services/pkg/proofissuer"
	"github.com/stretchr/testify/mock"
)

type ProofIssuer struct {
	mock.Mock
}

func (p *ProofIssuer) Issue(ctx context.Context, request proofissuer.IssueRequest) (proofissuer.IssueResponse, error) {
	args := p.Called(ctx, request)
	return args.Get(0).(proofissuer.IssueResponse), args.Error(1)
}
