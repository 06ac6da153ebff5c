package catalog

import "context"

// Source provides the product list a Catalog starts from.
type Source interface {
	Load(ctx context.Context) ([]Product, error)
}

type StaticSource struct {
	Products []Product
}

func NewStaticSource() StaticSource {
	return StaticSource{Products: Seed()}
}

func (s StaticSource) Load(context.Context) ([]Product, error) {
	out := make([]Product, len(s.Products))
	copy(out, s.Products)
	return out, nil
}

func Seed() []Product {
	return []Product{
		{ID: 1, Name: "HP Pavilion Gaming Laptop", Category: "Laptop", Price: 65999, Description: "15.6-inch FHD, AMD Ryzen 5 5600H, 8GB RAM, 512GB SSD, NVIDIA GTX 1650", Image: "/assets/images/laptop1.jpg", Stock: 10},
		{ID: 2, Name: "Dell Inspiron 15", Category: "Laptop", Price: 49999, Description: "15.6-inch FHD, Intel Core i5-11320H, 8GB RAM, 512GB SSD, Intel Iris Xe Graphics", Image: "/assets/images/laptop2.jpg", Stock: 15},
		{ID: 3, Name: "Lenovo IdeaPad Gaming 3", Category: "Laptop", Price: 58999, Description: "15.6-inch FHD IPS, AMD Ryzen 5 5500H, 8GB RAM, 512GB SSD, NVIDIA GTX 1650", Image: "/assets/images/laptop3.jpg", Stock: 8},
		{ID: 4, Name: "ASUS TUF Gaming F15", Category: "Laptop", Price: 69999, Description: "15.6-inch FHD, Intel Core i5-11400H, 16GB RAM, 512GB SSD, NVIDIA RTX 3050", Image: "/assets/images/laptop4.jpg", Stock: 12},
		{ID: 5, Name: "Acer Nitro 5", Category: "Laptop", Price: 72999, Description: "15.6-inch FHD IPS, AMD Ryzen 7 5800H, 16GB RAM, 512GB SSD, NVIDIA RTX 3060", Image: "/assets/images/laptop5.jpg", Stock: 7},
		{ID: 6, Name: "Custom Gaming Desktop PC", Category: "Desktop", Price: 89999, Description: "AMD Ryzen 7 5800X, 32GB RAM, 1TB SSD, NVIDIA RTX 3070, Windows 11", Image: "/assets/images/desktop1.jpg", Stock: 5},
		{ID: 7, Name: "Apple MacBook Air M1", Category: "Laptop", Price: 92999, Description: "13.3-inch Retina Display, Apple M1 chip, 8GB RAM, 256GB SSD", Image: "/assets/images/laptop6.jpg", Stock: 20},
		{ID: 8, Name: "MSI GF63 Thin", Category: "Laptop", Price: 59999, Description: "15.6-inch FHD, Intel Core i5-10500H, 8GB RAM, 512GB SSD, NVIDIA GTX 1650", Image: "/assets/images/laptop7.jpg", Stock: 9},
		{ID: 9, Name: "Intel Core i7 12700K", Category: "Hardware", Price: 32999, Description: "12 cores (8P+4E), up to 5.0 GHz, LGA1700 socket, unlocked for overclocking", Image: "/assets/images/processor1.jpg", Stock: 15},
		{ID: 10, Name: "AMD Ryzen 9 5900X", Category: "Hardware", Price: 39999, Description: "12 cores, 24 threads, up to 4.8 GHz, AM4 socket, unlocked for overclocking", Image: "/assets/images/processor2.jpg", Stock: 12},
		{ID: 11, Name: "NVIDIA GeForce RTX 3080", Category: "Hardware", Price: 79999, Description: "10GB GDDR6X, 8704 CUDA Cores, PCIe 4.0, Ray Tracing, DLSS", Image: "/assets/images/gpu1.jpg", Stock: 6},
		{ID: 12, Name: "AMD Radeon RX 6800 XT", Category: "Hardware", Price: 69999, Description: "16GB GDDR6, 4608 Stream Processors, PCIe 4.0, Ray Tracing", Image: "/assets/images/gpu2.jpg", Stock: 8},
		{ID: 13, Name: "Crucial 32GB DDR4 RAM", Category: "Hardware", Price: 9999, Description: "32GB (16GBx2) DDR4-3200 MHz, CL16, 1.35V, Desktop Memory", Image: "/assets/images/ram1.jpg", Stock: 25},
		{ID: 14, Name: "Samsung 1TB 980 PRO SSD", Category: "Hardware", Price: 12999, Description: "NVMe PCIe 4.0, M.2, Up to 7000 MB/s Read Speed", Image: "/assets/images/ssd1.jpg", Stock: 30},
		{ID: 15, Name: "WD Blue 2TB HDD", Category: "Hardware", Price: 4999, Description: "3.5-inch, 7200 RPM, SATA 6 Gb/s, 256MB Cache", Image: "/assets/images/hdd1.jpg", Stock: 40},
		{ID: 16, Name: "ASUS ROG Strix B550-F Gaming", Category: "Hardware", Price: 15999, Description: "ATX Motherboard, AMD AM4, PCIe 4.0, WiFi 6", Image: "/assets/images/motherboard1.jpg", Stock: 12},
		{ID: 17, Name: "MSI MPG A750G Power Supply", Category: "Hardware", Price: 8999, Description: "750W, 80+ Gold Certified, Fully Modular", Image: "/assets/images/psu1.jpg", Stock: 18},
		{ID: 18, Name: "Corsair iCUE H100i RGB PRO XT", Category: "Hardware", Price: 11999, Description: "240mm Liquid CPU Cooler, RGB Pump and Fans", Image: "/assets/images/cooler1.jpg", Stock: 10},
		{ID: 19, Name: "NZXT H510 Mid Tower", Category: "Hardware", Price: 7499, Description: "Tempered Glass Side Panel, Cable Management System, Compact ATX", Image: "/assets/images/case1.jpg", Stock: 15},
		{ID: 20, Name: "Gaming Desktop Bundle", Category: "Desktop", Price: 149999, Description: "Ryzen 9 5950X, RTX 3090, 64GB RAM, 2TB NVMe SSD, Windows 11 Pro", Image: "/assets/images/bundle1.jpg", Stock: 3},
	}
}
