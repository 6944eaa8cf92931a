package service

import (
	"strings"
	"time"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"
)

// SupplierService 供应商服务
type SupplierService struct {
	supplierRepo repository.SupplierRepository
	auditService *AuditService
}

// NewSupplierService 创建供应商服务
func NewSupplierService(supplierRepo repository.SupplierRepository, auditService *AuditService) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		auditService: auditService,
	}
}

// SupplierInput 供应商写入输入
type SupplierInput struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	ContactName string
	IsActive    *bool
	OperatorID  *uint
}

// CreateSupplier 创建供应商
func (s *SupplierService) CreateSupplier(input SupplierInput) (*models.Supplier, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrSupplierNotFound
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	now := time.Now()
	supplier := &models.Supplier{
		Name:        name,
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:       strings.TrimSpace(input.Phone),
		Address:     input.Address,
		ContactName: strings.TrimSpace(input.ContactName),
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	s.auditService.Record(input.OperatorID, constants.AuditActionCreate, "supplier", supplier.ID, models.JSON{
		"name": supplier.Name,
	})
	return supplier, nil
}

// UpdateSupplier 更新供应商
func (s *SupplierService) UpdateSupplier(id uint, input SupplierInput) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrSupplierNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		supplier.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		supplier.Email = email
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		supplier.Phone = phone
	}
	if input.Address != "" {
		supplier.Address = input.Address
	}
	if contact := strings.TrimSpace(input.ContactName); contact != "" {
		supplier.ContactName = contact
	}
	if input.IsActive != nil {
		supplier.IsActive = *input.IsActive
	}
	supplier.UpdatedAt = time.Now()

	if err := s.supplierRepo.Update(supplier); err != nil {
		return nil, err
	}
	s.auditService.Record(input.OperatorID, constants.AuditActionUpdate, "supplier", supplier.ID, models.JSON{
		"name": supplier.Name,
	})
	return supplier, nil
}

// GetSupplier 获取供应商详情
func (s *SupplierService) GetSupplier(id uint) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrSupplierNotFound
	}
	return supplier, nil
}

// ListSuppliers 供应商列表
func (s *SupplierService) ListSuppliers(filter repository.SupplierListFilter) ([]models.Supplier, int64, error) {
	return s.supplierRepo.List(filter)
}

// DeleteSupplier 删除供应商
func (s *SupplierService) DeleteSupplier(id uint, operatorID *uint) error {
	supplier, err := s.supplierRepo.GetByID(id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return ErrSupplierNotFound
	}
	if err := s.supplierRepo.Delete(id); err != nil {
		return err
	}
	s.auditService.Record(operatorID, constants.AuditActionDelete, "supplier", id, models.JSON{
		"name": supplier.Name,
	})
	return nil
}
