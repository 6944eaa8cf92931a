package service

import (
	"strings"
	"time"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"
)

// WarehouseService 仓库服务
type WarehouseService struct {
	warehouseRepo repository.WarehouseRepository
	auditService  *AuditService
}

// NewWarehouseService 创建仓库服务
func NewWarehouseService(warehouseRepo repository.WarehouseRepository, auditService *AuditService) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		auditService:  auditService,
	}
}

// WarehouseInput 仓库写入输入
type WarehouseInput struct {
	Code       string
	Name       string
	Address    string
	City       string
	IsActive   *bool
	OperatorID *uint
}

// CreateWarehouse 创建仓库，编号全局唯一。
func (s *WarehouseService) CreateWarehouse(input WarehouseInput) (*models.Warehouse, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, ErrWarehouseNotFound
	}
	existing, err := s.warehouseRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrWarehouseCodeTaken
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	now := time.Now()
	warehouse := &models.Warehouse{
		Code:      code,
		Name:      name,
		Address:   input.Address,
		City:      input.City,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.warehouseRepo.Create(warehouse); err != nil {
		return nil, err
	}
	s.auditService.Record(input.OperatorID, constants.AuditActionCreate, "warehouse", warehouse.ID, models.JSON{
		"code": warehouse.Code,
	})
	return warehouse, nil
}

// UpdateWarehouse 更新仓库
func (s *WarehouseService) UpdateWarehouse(id uint, input WarehouseInput) (*models.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, ErrWarehouseNotFound
	}

	if code := strings.ToUpper(strings.TrimSpace(input.Code)); code != "" && code != warehouse.Code {
		existing, err := s.warehouseRepo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrWarehouseCodeTaken
		}
		warehouse.Code = code
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		warehouse.Name = name
	}
	if input.Address != "" {
		warehouse.Address = input.Address
	}
	if input.City != "" {
		warehouse.City = input.City
	}
	if input.IsActive != nil {
		warehouse.IsActive = *input.IsActive
	}
	warehouse.UpdatedAt = time.Now()

	if err := s.warehouseRepo.Update(warehouse); err != nil {
		return nil, err
	}
	s.auditService.Record(input.OperatorID, constants.AuditActionUpdate, "warehouse", warehouse.ID, models.JSON{
		"code": warehouse.Code,
	})
	return warehouse, nil
}

// GetWarehouse 获取仓库详情
func (s *WarehouseService) GetWarehouse(id uint) (*models.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, ErrWarehouseNotFound
	}
	return warehouse, nil
}

// ListWarehouses 仓库列表
func (s *WarehouseService) ListWarehouses(filter repository.WarehouseListFilter) ([]models.Warehouse, int64, error) {
	return s.warehouseRepo.List(filter)
}

// DeleteWarehouse 删除仓库
func (s *WarehouseService) DeleteWarehouse(id uint, operatorID *uint) error {
	warehouse, err := s.warehouseRepo.GetByID(id)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return ErrWarehouseNotFound
	}
	if err := s.warehouseRepo.Delete(id); err != nil {
		return err
	}
	s.auditService.Record(operatorID, constants.AuditActionDelete, "warehouse", id, models.JSON{
		"code": warehouse.Code,
	})
	return nil
}

// ZoneInput 库区写入输入
type ZoneInput struct {
	WarehouseID uint
	Code        string
	Name        string
}

// CreateZone 创建库区
func (s *WarehouseService) CreateZone(input ZoneInput) (*models.Zone, error) {
	warehouse, err := s.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, ErrWarehouseNotFound
	}
	zone := &models.Zone{
		WarehouseID: input.WarehouseID,
		Code:        strings.ToUpper(strings.TrimSpace(input.Code)),
		Name:        strings.TrimSpace(input.Name),
		CreatedAt:   time.Now(),
	}
	if err := s.warehouseRepo.CreateZone(zone); err != nil {
		return nil, err
	}
	return zone, nil
}

// ListZones 获取仓库库区
func (s *WarehouseService) ListZones(warehouseID uint) ([]models.Zone, error) {
	return s.warehouseRepo.ListZones(warehouseID)
}

// CreateLocation 创建库位
func (s *WarehouseService) CreateLocation(zoneID uint, code string) (*models.Location, error) {
	location := &models.Location{
		ZoneID:    zoneID,
		Code:      strings.ToUpper(strings.TrimSpace(code)),
		CreatedAt: time.Now(),
	}
	if err := s.warehouseRepo.CreateLocation(location); err != nil {
		return nil, err
	}
	return location, nil
}
