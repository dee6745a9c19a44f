// Package store содержит персистентность набора данных в одном JSON-файле.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avieira/loja-online/internal/model"
)

// ErrCorruptData возвращается из Load вместе с набором данных по
// умолчанию, если файл существует, но не разбирается как JSON.
var ErrCorruptData = errors.New("data file is corrupt")

// Store читает и записывает файл данных целиком.
type Store struct {
	path   string
	logger *zap.Logger
}

// New создаёт хранилище поверх указанного файла.
func New(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Формат файла фиксирован: имена полей и вложенность должны совпадать
// с данными байт в байт, цены пишутся обычными JSON-числами.

type fileCustomer struct {
	Name    string `json:"nome"`
	CPF     string `json:"cpf"`
	Address string `json:"endereco"`
}

type fileProduct struct {
	Name  string  `json:"nome"`
	Price float64 `json:"preco"`
}

type fileItem struct {
	ProductData fileProduct `json:"produto_data"`
	Quantity    int         `json:"quantidade"`
}

type fileOrder struct {
	CustomerID string     `json:"cliente_id"`
	Items      []fileItem `json:"itens"`
	Paid       bool       `json:"pago"`
}

type fileNextIDs struct {
	Customer int `json:"cliente"`
	Order    int `json:"pedido"`
}

type fileDataset struct {
	Customers map[string]fileCustomer `json:"clientes"`
	Products  map[string]fileProduct  `json:"produtos"`
	Orders    map[string]fileOrder    `json:"pedidos"`
	NextIDs   fileNextIDs             `json:"next_ids"`
}

func seedDataset() fileDataset {
	return fileDataset{
		Customers: map[string]fileCustomer{
			"1": {Name: "João Silva", CPF: "000.111.222-33", Address: "Rua Principal"},
		},
		Products: map[string]fileProduct{
			"101": {Name: "PC Gamer Z100", Price: 6500.00},
			"102": {Name: "Monitor Ultra", Price: 1200.00},
		},
		Orders:  map[string]fileOrder{},
		NextIDs: fileNextIDs{Customer: 2, Order: 1},
	}
}

// Load читает набор данных с диска. Отсутствующий файл создаётся с
// данными по умолчанию. Если файл не разбирается, Load возвращает
// данные по умолчанию вместе с ErrCorruptData; сам файл при этом не
// перезаписывается до следующего Save.
func (s *Store) Load() (*model.Dataset, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		seed := seedDataset()
		if err := s.write(seed); err != nil {
			return nil, fmt.Errorf("write seed dataset: %w", err)
		}
		return s.rebuild(seed), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var data fileDataset
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn("data file is corrupt, falling back to seed defaults",
			zap.String("path", s.path), zap.Error(err))
		return s.rebuild(seedDataset()), ErrCorruptData
	}

	return s.rebuild(data), nil
}

// rebuild восстанавливает граф объектов из плоского представления.
// Порядок важен: заказы разрешают cliente_id по уже построенной карте
// клиентов; заказ с неизвестным клиентом пропускается, загрузка
// продолжается.
func (s *Store) rebuild(data fileDataset) *model.Dataset {
	ds := &model.Dataset{
		Customers: make(map[string]*model.Customer, len(data.Customers)),
		Products:  make(map[string]*model.Product, len(data.Products)),
		Orders:    make(map[string]*model.Order, len(data.Orders)),
		NextIDs: model.NextIDs{
			Customer: data.NextIDs.Customer,
			Order:    data.NextIDs.Order,
		},
	}

	for id, p := range data.Products {
		ds.Products[id] = model.NewProduct(p.Name, decimal.NewFromFloat(p.Price))
	}

	for id, c := range data.Customers {
		ds.Customers[id] = model.NewCustomer(c.Name, c.CPF, c.Address)
	}

	for id, o := range data.Orders {
		customer, ok := ds.Customers[o.CustomerID]
		if !ok {
			s.logger.Error("skipping order with unknown customer",
				zap.String("order", id), zap.String("customer", o.CustomerID))
			continue
		}

		order := model.NewOrder(o.CustomerID, customer)
		order.Paid = o.Paid
		for _, item := range o.Items {
			// Каждая строка получает собственный экземпляр товара,
			// восстановленный из встроенного снимка produto_data.
			product := model.NewProduct(item.ProductData.Name, decimal.NewFromFloat(item.ProductData.Price))
			order.AddItem(product, item.Quantity)
		}

		ds.Orders[id] = order
	}

	return ds
}

// Save разворачивает набор данных в плоское представление и
// перезаписывает файл целиком.
func (s *Store) Save(ds *model.Dataset) error {
	data := fileDataset{
		Customers: make(map[string]fileCustomer, len(ds.Customers)),
		Products:  make(map[string]fileProduct, len(ds.Products)),
		Orders:    make(map[string]fileOrder, len(ds.Orders)),
		NextIDs: fileNextIDs{
			Customer: ds.NextIDs.Customer,
			Order:    ds.NextIDs.Order,
		},
	}

	for id, c := range ds.Customers {
		data.Customers[id] = fileCustomer{Name: c.Name, CPF: c.CPF, Address: c.Address}
	}

	for id, p := range ds.Products {
		data.Products[id] = fileProduct{Name: p.Name, Price: p.Price.InexactFloat64()}
	}

	for id, o := range ds.Orders {
		items := make([]fileItem, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, fileItem{
				// Снимок товара встраивается в строку заказа; каноническая
				// карта товаров при этом не затрагивается.
				ProductData: fileProduct{
					Name:  item.Product.Name,
					Price: item.Product.Price.InexactFloat64(),
				},
				Quantity: item.Quantity,
			})
		}
		data.Orders[id] = fileOrder{
			CustomerID: o.CustomerID,
			Items:      items,
			Paid:       o.Paid,
		}
	}

	return s.write(data)
}

func (s *Store) write(data fileDataset) error {
	raw, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}

	return nil
}
