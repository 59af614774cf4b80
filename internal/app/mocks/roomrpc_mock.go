// Mocks of RoomRPC (internal/app/rpc_client.go) and Directory
// (internal/app/router.go).

// Package mocks holds generated-style mocks for internal/app's peer-RPC
// interfaces, hand-authored in the shape go.uber.org/mock/mockgen emits so
// router tests can drive remote-invocation failure paths without a live
// peer node.
package mocks

import (
	context "context"
	reflect "reflect"

	app "github.com/dkeye/clustchat/internal/app"
	domain "github.com/dkeye/clustchat/internal/domain"
	gomock "go.uber.org/mock/gomock"
)

// MockRoomRPC is a mock of the RoomRPC interface.
type MockRoomRPC struct {
	ctrl     *gomock.Controller
	recorder *MockRoomRPCMockRecorder
}

// MockRoomRPCMockRecorder is the mock recorder for MockRoomRPC.
type MockRoomRPCMockRecorder struct {
	mock *MockRoomRPC
}

// NewMockRoomRPC creates a new mock instance.
func NewMockRoomRPC(ctrl *gomock.Controller) *MockRoomRPC {
	mock := &MockRoomRPC{ctrl: ctrl}
	mock.recorder = &MockRoomRPCMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRoomRPC) EXPECT() *MockRoomRPCMockRecorder {
	return m.recorder
}

// InvokeRoom mocks base method.
func (m *MockRoomRPC) InvokeRoom(ctx context.Context, addr string, req app.RoomRequest) (app.RoomResponse, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InvokeRoom", ctx, addr, req)
	ret0, _ := ret[0].(app.RoomResponse)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// InvokeRoom indicates an expected call of InvokeRoom.
func (mr *MockRoomRPCMockRecorder) InvokeRoom(ctx, addr, req any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InvokeRoom", reflect.TypeOf((*MockRoomRPC)(nil).InvokeRoom), ctx, addr, req)
}

// Deliver mocks base method.
func (m *MockRoomRPC) Deliver(ctx context.Context, addr string, req app.DeliverRequest) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Deliver", ctx, addr, req)
	ret0, _ := ret[0].(error)
	return ret0
}

// Deliver indicates an expected call of Deliver.
func (mr *MockRoomRPCMockRecorder) Deliver(ctx, addr, req any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Deliver", reflect.TypeOf((*MockRoomRPC)(nil).Deliver), ctx, addr, req)
}

// MockDirectory is a mock of the Directory interface.
type MockDirectory struct {
	ctrl     *gomock.Controller
	recorder *MockDirectoryMockRecorder
}

// MockDirectoryMockRecorder is the mock recorder for MockDirectory.
type MockDirectoryMockRecorder struct {
	mock *MockDirectory
}

// NewMockDirectory creates a new mock instance.
func NewMockDirectory(ctrl *gomock.Controller) *MockDirectory {
	mock := &MockDirectory{ctrl: ctrl}
	mock.recorder = &MockDirectoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockDirectory) EXPECT() *MockDirectoryMockRecorder {
	return m.recorder
}

// LookupRoom mocks base method.
func (m *MockDirectory) LookupRoom(ctx context.Context, name domain.RoomName) (domain.NodeID, string, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LookupRoom", ctx, name)
	ret0, _ := ret[0].(domain.NodeID)
	ret1, _ := ret[1].(string)
	ret2, _ := ret[2].(bool)
	return ret0, ret1, ret2
}

// LookupRoom indicates an expected call of LookupRoom.
func (mr *MockDirectoryMockRecorder) LookupRoom(ctx, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LookupRoom", reflect.TypeOf((*MockDirectory)(nil).LookupRoom), ctx, name)
}

// LookupUser mocks base method.
func (m *MockDirectory) LookupUser(ctx context.Context, number domain.UserNumber) (domain.NodeID, string, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LookupUser", ctx, number)
	ret0, _ := ret[0].(domain.NodeID)
	ret1, _ := ret[1].(string)
	ret2, _ := ret[2].(bool)
	return ret0, ret1, ret2
}

// LookupUser indicates an expected call of LookupUser.
func (mr *MockDirectoryMockRecorder) LookupUser(ctx, number any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LookupUser", reflect.TypeOf((*MockDirectory)(nil).LookupUser), ctx, number)
}

// EnumerateRooms mocks base method.
func (m *MockDirectory) EnumerateRooms(ctx context.Context) []domain.RoomName {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EnumerateRooms", ctx)
	ret0, _ := ret[0].([]domain.RoomName)
	return ret0
}

// EnumerateRooms indicates an expected call of EnumerateRooms.
func (mr *MockDirectoryMockRecorder) EnumerateRooms(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EnumerateRooms", reflect.TypeOf((*MockDirectory)(nil).EnumerateRooms), ctx)
}
