package handler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ecolife/inventory/internal/core/domain"
	"github.com/ecolife/inventory/internal/core/service"
)

const menu = `
🌱 --- Panel de Administración EcoLife --- 🌱
1. Añadir nuevo producto
2. Eliminar producto por ID
3. Actualizar cantidad o precio
4. Buscar producto por nombre
5. Mostrar todos los productos
6. Salir`

// Console is the interactive admin menu. It parses what the operator types,
// calls the inventory and prints the outcome. Only fatal storage errors stop it.
type Console struct {
	inventory *service.InventoryService
	in        *bufio.Scanner
	out       io.Writer
}

func NewConsole(inventory *service.InventoryService, in io.Reader, out io.Writer) *Console {
	return &Console{inventory: inventory, in: bufio.NewScanner(in), out: out}
}

// Run loops over the menu until the operator exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		c.println(menu)
		option, ok := c.prompt("Selecciona una opción (1-6): ")
		if !ok {
			return nil
		}

		var err error
		switch strings.TrimSpace(option) {
		case "1":
			err = c.addFromInput(ctx)
		case "2":
			id, _ := c.prompt("Ingrese el ID del producto a eliminar: ")
			err = c.Remove(ctx, id)
		case "3":
			err = c.updateFromInput(ctx)
		case "4":
			name, _ := c.prompt("Ingrese el nombre (o parte de él) a buscar: ")
			err = c.Search(name)
		case "5":
			err = c.List()
		case "6":
			c.println("Saliendo del sistema. ¡Base de datos guardada con éxito!")
			return nil
		default:
			c.println("❌ Opción no válida. Intenta de nuevo.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) addFromInput(ctx context.Context) error {
	id, _ := c.prompt("ID del producto (ej. ECO001): ")
	name, _ := c.prompt("Nombre del producto: ")

	quantity, _ := c.prompt("Cantidad en stock: ")
	if _, err := strconv.Atoi(strings.TrimSpace(quantity)); err != nil {
		c.println("❌ Error: Debes ingresar números válidos para cantidad y precio.")
		return nil
	}
	price, _ := c.prompt("Precio unitario: ")
	return c.Add(ctx, id, name, quantity, price)
}

func (c *Console) updateFromInput(ctx context.Context) error {
	id, _ := c.prompt("Ingrese el ID del producto a actualizar: ")
	c.println("Deja en blanco y presiona Enter si no deseas modificar el valor.")
	quantity, _ := c.prompt("Nueva cantidad: ")
	price, _ := c.prompt("Nuevo precio: ")
	return c.Update(ctx, id, quantity, price)
}

// Add parses quantity and price and adds the product.
func (c *Console) Add(ctx context.Context, id, name, quantity, price string) error {
	q, errQ := strconv.Atoi(strings.TrimSpace(quantity))
	p, errP := parsePrice(price)
	if errQ != nil || errP != nil {
		c.println("❌ Error: Debes ingresar números válidos para cantidad y precio.")
		return nil
	}

	err := c.inventory.Add(ctx, domain.NewProduct(id, name, q, p))
	switch {
	case err == nil:
		c.println("✅ Producto ecológico añadido con éxito.")
	case errors.Is(err, service.ErrDuplicateID):
		c.printf("⚠️ El producto con ID %s ya existe.\n", id)
	case errors.Is(err, service.ErrStorageIntegrity):
		c.println("⚠️ Error de integridad en la base de datos.")
	default:
		return c.fatal(err)
	}
	return nil
}

func (c *Console) Remove(ctx context.Context, id string) error {
	err := c.inventory.Remove(ctx, id)
	switch {
	case err == nil:
		c.println("✅ Producto eliminado del inventario.")
	case errors.Is(err, service.ErrNotFound):
		c.println("❌ Producto no encontrado en el sistema.")
	default:
		return c.fatal(err)
	}
	return nil
}

// Update treats a blank quantity or price as "leave unchanged".
func (c *Console) Update(ctx context.Context, id, quantity, price string) error {
	var req service.UpdateRequest
	if s := strings.TrimSpace(quantity); s != "" {
		q, err := strconv.Atoi(s)
		if err != nil {
			c.println("❌ Error: Ingresa valores numéricos válidos.")
			return nil
		}
		req.Quantity = &q
	}
	if s := strings.TrimSpace(price); s != "" {
		p, err := parsePrice(s)
		if err != nil {
			c.println("❌ Error: Ingresa valores numéricos válidos.")
			return nil
		}
		req.Price = &p
	}

	result, err := c.inventory.Update(ctx, id, req)
	for _, rejected := range result.Rejected {
		switch {
		case errors.Is(rejected, domain.ErrNegativeQuantity):
			c.println("❌ Error: La cantidad no puede ser negativa.")
		case errors.Is(rejected, domain.ErrNegativePrice):
			c.println("❌ Error: El precio no puede ser negativo.")
		}
	}

	switch {
	case err == nil:
		c.println("✅ Producto actualizado correctamente.")
	case errors.Is(err, service.ErrNotFound):
		c.println("❌ Producto no encontrado.")
	case errors.Is(err, service.ErrStorageIntegrity):
		c.println("⚠️ Error de integridad en la base de datos.")
	default:
		return c.fatal(err)
	}
	return nil
}

func (c *Console) Search(name string) error {
	products, err := c.inventory.SearchByName(name)
	switch {
	case err == nil:
		c.println("\n--- Resultados de Búsqueda ---")
		for _, p := range products {
			c.println(p.String())
		}
	case errors.Is(err, service.ErrNotFound):
		c.println("❌ No se encontraron productos con ese nombre.")
	default:
		return c.fatal(err)
	}
	return nil
}

func (c *Console) List() error {
	products, err := c.inventory.ListAll()
	switch {
	case err == nil:
		c.println("\n--- Inventario Completo de EcoLife ---")
		for _, p := range products {
			c.println(p.String())
		}
		c.println("--------------------------------------")
	case errors.Is(err, service.ErrEmpty):
		c.println("📦 El inventario está vacío.")
	default:
		return c.fatal(err)
	}
	return nil
}

// parsePrice refuses "nan" and "inf", which ParseFloat would accept.
func parsePrice(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, errors.Errorf("price %q is not a finite number", s)
	}
	return p, nil
}

func (c *Console) fatal(err error) error {
	c.println("❌ Error crítico: la base de datos no está disponible.")
	return err
}

func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
