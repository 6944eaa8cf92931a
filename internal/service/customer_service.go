package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"
)

// CustomerService 客户服务
type CustomerService struct {
	customerRepo repository.CustomerRepository
	auditService *AuditService
}

// NewCustomerService 创建客户服务
func NewCustomerService(customerRepo repository.CustomerRepository, auditService *AuditService) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		auditService: auditService,
	}
}

// CustomerInput 客户写入输入
type CustomerInput struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	City       string
	Country    string
	IsActive   *bool
	OperatorID *uint
}

// CreateCustomer 创建客户，邮箱全局唯一。
func (s *CustomerService) CreateCustomer(input CustomerInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, ErrCustomerNotFound
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrEmailTaken
	}
	existing, err := s.customerRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	now := time.Now()
	customer := &models.Customer{
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(input.Phone),
		Address:   input.Address,
		City:      input.City,
		Country:   input.Country,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}

	s.auditService.Record(input.OperatorID, constants.AuditActionCreate, "customer", customer.ID, models.JSON{
		"email": customer.Email,
	})
	return customer, nil
}

// UpdateCustomer 更新客户
func (s *CustomerService) UpdateCustomer(id uint, input CustomerInput) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != customer.Email {
		existing, err := s.customerRepo.GetByEmail(email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
		customer.Email = email
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		customer.Name = name
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		customer.Phone = phone
	}
	if input.Address != "" {
		customer.Address = input.Address
	}
	if input.City != "" {
		customer.City = input.City
	}
	if input.Country != "" {
		customer.Country = input.Country
	}
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}
	customer.UpdatedAt = time.Now()

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}

	s.auditService.Record(input.OperatorID, constants.AuditActionUpdate, "customer", customer.ID, models.JSON{
		"email": customer.Email,
	})
	return customer, nil
}

// GetCustomer 获取客户详情
func (s *CustomerService) GetCustomer(id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// ListCustomers 客户列表
func (s *CustomerService) ListCustomers(filter repository.CustomerListFilter) ([]models.Customer, int64, error) {
	return s.customerRepo.List(filter)
}

// DeleteCustomer 删除客户
func (s *CustomerService) DeleteCustomer(id uint, operatorID *uint) error {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return ErrCustomerNotFound
	}
	if err := s.customerRepo.Delete(id); err != nil {
		return err
	}
	s.auditService.Record(operatorID, constants.AuditActionDelete, "customer", id, models.JSON{
		"email": customer.Email,
	})
	return nil
}
