package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinlabs/dupescan/domain"
)

type fakeScanService struct {
	resp *domain.ScanResponse
	err  error
	got  domain.ScanRequest
}

func (s *fakeScanService) Scan(ctx context.Context, req *domain.ScanRequest) (*domain.ScanResponse, error) {
	s.got = *req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type fakeFormatter struct {
	err     error
	written *domain.ScanResponse
}

func (f *fakeFormatter) Format(resp *domain.ScanResponse, format domain.OutputFormat, w io.Writer) error {
	f.written = resp
	if f.err != nil {
		return f.err
	}
	_, err := w.Write([]byte("formatted"))
	return err
}

type fakeConfigLoader struct {
	req *domain.ScanRequest
	err error
}

func (l *fakeConfigLoader) Load(configPath string) (*domain.ScanRequest, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.req, nil
}

func (l *fakeConfigLoader) Default() *domain.ScanRequest {
	return domain.DefaultScanRequest()
}

func TestScanUseCase_Execute_HappyPath(t *testing.T) {
	svc := &fakeScanService{resp: &domain.ScanResponse{Success: true, Statistics: &domain.ScanStatistics{}}}
	formatter := &fakeFormatter{}
	loader := &fakeConfigLoader{}
	uc := NewScanUseCase(svc, formatter, loader)

	var buf bytes.Buffer
	req := *domain.DefaultScanRequest()
	req.OutputWriter = &buf

	err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "formatted", buf.String())
	assert.NotNil(t, formatter.written)
}

func TestScanUseCase_Execute_MissingOutputWriterErrors(t *testing.T) {
	svc := &fakeScanService{resp: &domain.ScanResponse{Success: true}}
	uc := NewScanUseCase(svc, &fakeFormatter{}, &fakeConfigLoader{})

	req := *domain.DefaultScanRequest()
	req.OutputWriter = nil
	err := uc.Execute(context.Background(), req)
	assert.Error(t, err)
}

func TestScanUseCase_Execute_InvalidRequestErrors(t *testing.T) {
	svc := &fakeScanService{resp: &domain.ScanResponse{Success: true}}
	uc := NewScanUseCase(svc, &fakeFormatter{}, &fakeConfigLoader{})

	req := *domain.DefaultScanRequest()
	req.Threshold = 2.0
	var buf bytes.Buffer
	req.OutputWriter = &buf

	err := uc.Execute(context.Background(), req)
	assert.Error(t, err)
}

func TestScanUseCase_Execute_ServiceErrorPropagates(t *testing.T) {
	svc := &fakeScanService{err: errors.New("scan failed downstream")}
	uc := NewScanUseCase(svc, &fakeFormatter{}, &fakeConfigLoader{})

	req := *domain.DefaultScanRequest()
	var buf bytes.Buffer
	req.OutputWriter = &buf

	err := uc.Execute(context.Background(), req)
	assert.Error(t, err)
}

func TestScanUseCase_Execute_ConfigPathMergesFileConfig(t *testing.T) {
	fileReq := domain.DefaultScanRequest()
	fileReq.Threshold = 0.6
	fileReq.Paths = []string{"src"}

	svc := &fakeScanService{resp: &domain.ScanResponse{Success: true, Statistics: &domain.ScanStatistics{}}}
	loader := &fakeConfigLoader{req: fileReq}
	uc := NewScanUseCase(svc, &fakeFormatter{}, loader)

	req := domain.ScanRequest{ConfigPath: "some.toml"}
	var buf bytes.Buffer
	req.OutputWriter = &buf

	err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.6, svc.got.Threshold, "CLI request left threshold unset, so the file config's value should win")
	assert.Equal(t, []string{"src"}, svc.got.Paths)
}

func TestScanUseCase_Execute_ConfigLoadFailurePropagates(t *testing.T) {
	svc := &fakeScanService{resp: &domain.ScanResponse{Success: true}}
	loader := &fakeConfigLoader{err: errors.New("bad toml")}
	uc := NewScanUseCase(svc, &fakeFormatter{}, loader)

	req := domain.ScanRequest{ConfigPath: "broken.toml"}
	var buf bytes.Buffer
	req.OutputWriter = &buf

	err := uc.Execute(context.Background(), req)
	assert.Error(t, err)
}

func TestMergeRequest_CLIBooleansORTogether(t *testing.T) {
	base := domain.ScanRequest{CrossFile: false, SkipTest: true}
	cli := domain.ScanRequest{CrossFile: true, SkipTest: false}

	merged := mergeRequest(base, cli)
	assert.True(t, merged.CrossFile)
	assert.True(t, merged.SkipTest)
}

func TestMergeRequest_ExplicitFalseFlagOverridesFileConfig(t *testing.T) {
	base := domain.ScanRequest{CrossFile: true}
	cli := domain.ScanRequest{CrossFile: false, ExplicitFlags: map[string]bool{"cross-file": true}}

	merged := mergeRequest(base, cli)
	assert.False(t, merged.CrossFile, "an explicitly-passed --cross-file=false must win over the file config's true")
}

func TestMergeRequest_CLINonZeroFieldsWin(t *testing.T) {
	base := domain.ScanRequest{Threshold: 0.5, MinLines: 3}
	cli := domain.ScanRequest{Threshold: 0.9}

	merged := mergeRequest(base, cli)
	assert.Equal(t, 0.9, merged.Threshold)
	assert.Equal(t, 3, merged.MinLines, "zero-value CLI field should inherit the base config's value")
}
