package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/azops/pkg/command"
	"github.com/NVIDIA/azops/pkg/command/commandtest"
)

const (
	pipID = "/subscriptions/s1/resourceGroups/rg-web/providers/Microsoft.Network/publicIPAddresses/pip-web"
	nicID = "/subscriptions/s1/resourceGroups/rg-web/providers/Microsoft.Network/networkInterfaces/nic-web"
)

func newAZ(f *commandtest.FakeRunner) *command.AzureCLI {
	return command.NewAzureCLI(f)
}

func TestVMCollector(t *testing.T) {
	fake := commandtest.New().
		OnJSON("vm list", `[{"name":"vm-web","resourceGroup":"rg-web","location":"eastus"}]`).
		OnJSON("vm show -g rg-web -n vm-web --query networkProfile.networkInterfaces[].id", `["`+nicID+`"]`).
		OnJSON("network nic show --ids "+nicID, `{"ipConfigurations":[{"privateIPAddress":"10.0.0.4","publicIPAddress":{"id":"`+pipID+`"}}]}`).
		OnJSON("network public-ip show --ids "+pipID, `{"ipAddress":"20.1.2.3"}`)

	rows, err := (&VMCollector{AZ: newAZ(fake)}).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Row{
		{ResourceType: ResourceVM, ResourceName: "vm-web", ResourceGroup: "rg-web", Location: "eastus", IPAddress: "10.0.0.4", IPType: IPTypePrivate},
		{ResourceType: ResourceVM, ResourceName: "vm-web", ResourceGroup: "rg-web", Location: "eastus", IPAddress: "20.1.2.3", IPType: IPTypePublic},
	}, rows)
}

func TestVMCollector_NicFailure(t *testing.T) {
	fake := commandtest.New().
		OnJSON("vm list", `[{"name":"vm-web","resourceGroup":"rg-web","location":"eastus"}]`).
		OnJSON("vm show -g rg-web -n vm-web --query networkProfile.networkInterfaces[].id", `["`+nicID+`"]`).
		OnFail("network nic show --ids "+nicID, "ResourceNotFound")

	_, err := (&VMCollector{AZ: newAZ(fake)}).Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ResourceNotFound")
}

func TestPublicIPCollector_SkipsUnallocated(t *testing.T) {
	fake := commandtest.New().
		OnJSON("network public-ip list", `[
			{"name":"pip-a","resourceGroup":"rg","location":"westus","ipAddress":"52.0.0.1"},
			{"name":"pip-b","resourceGroup":"rg","location":"westus"}
		]`)

	rows, err := (&PublicIPCollector{AZ: newAZ(fake)}).Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "pip-a", rows[0].ResourceName)
	assert.Equal(t, IPTypePublic, rows[0].IPType)
}

func TestAppGatewayCollector(t *testing.T) {
	fake := commandtest.New().
		OnJSON("network application-gateway list", `[{"name":"agw","resourceGroup":"rg-edge","location":"eastus"}]`).
		OnJSON("network application-gateway frontend-ip list --gateway-name agw -g rg-edge",
			`[{"privateIPAddress":"10.1.0.10"},{"publicIPAddress":{"id":"`+pipID+`"}}]`).
		OnJSON("network public-ip show --ids "+pipID, `{"ipAddress":"20.1.2.3"}`)

	rows, err := (&AppGatewayCollector{AZ: newAZ(fake)}).Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "10.1.0.10", rows[0].IPAddress)
	assert.Equal(t, IPTypePrivate, rows[0].IPType)
	assert.Equal(t, "20.1.2.3", rows[1].IPAddress)
	assert.Equal(t, IPTypePublic, rows[1].IPType)
}

func TestPrivateEndpointCollector(t *testing.T) {
	fake := commandtest.New().
		OnJSON("network private-endpoint list", `[{"name":"pe-sql","resourceGroup":"rg-db","location":"eastus",
			"ipConfigurations":[{"privateIPAddress":"10.2.0.5"},{"privateIPAddress":""}]}]`)

	rows, err := (&PrivateEndpointCollector{AZ: newAZ(fake)}).Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ResourcePrivateEndpoint, rows[0].ResourceType)
	assert.Equal(t, "10.2.0.5", rows[0].IPAddress)
}

func TestServerCollectors(t *testing.T) {
	fake := commandtest.New().
		OnJSON("mysql flexible-server list", `[{"name":"mysql-1","resourceGroup":"rg-db","location":"eastus","fullyQualifiedDomainName":"mysql-1.mysql.database.azure.com"}]`).
		OnJSON("postgres server list", `[{"name":"pg-1","resourceGroup":"rg-db","location":"eastus"}]`)

	f := NewDefaultFactory(newAZ(fake))

	rows, err := f.CreateMySQLCollector().Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ResourceMySQLFlexibleServer, rows[0].ResourceType)
	assert.Equal(t, "mysql-1.mysql.database.azure.com", rows[0].IPAddress)

	rows, err = f.CreatePostgresCollector().Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPrivateDNSCollector(t *testing.T) {
	fake := commandtest.New().
		OnJSON("network private-dns zone list", `[{"name":"privatelink.mysql.database.azure.com","resourceGroup":"rg-dns"}]`).
		OnJSON("network private-dns record-set list --zone-name privatelink.mysql.database.azure.com -g rg-dns",
			`[{"name":"mysql-1","aRecords":[{"ipv4Address":"10.3.0.4"}]},{"name":"@","aRecords":[]}]`)

	rows, err := (&PrivateDNSCollector{AZ: newAZ(fake)}).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Row{{
		ResourceType:  ResourcePrivateDNSZone,
		ResourceName:  "mysql-1",
		ResourceGroup: "rg-dns",
		Location:      "privatelink.mysql.database.azure.com",
		IPAddress:     "10.3.0.4",
		IPType:        IPTypePrivate,
	}}, rows)
}

func TestNICCollector(t *testing.T) {
	fake := commandtest.New().
		OnJSON("network nic list", `[{"name":"nic-a","resourceGroup":"rg","location":"eastus",
			"ipConfigurations":[{"privateIPAddress":"10.0.0.7"}]}]`)

	rows, err := (&NICCollector{AZ: newAZ(fake)}).Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ResourceNetworkInterface, rows[0].ResourceType)
}

func TestVNetCollector(t *testing.T) {
	fake := commandtest.New().
		OnJSON("network vnet list --subscription s1", `[{"name":"vnet-hub","resourceGroup":"rg-net","location":"eastus",
			"addressSpace":{"addressPrefixes":["10.0.0.0/16","10.1.0.0/16"]}}]`)

	rows, err := (&VNetCollector{AZ: newAZ(fake).ForSubscription("s1")}).Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "10.0.0.0/16", rows[0].IPAddress)
	assert.Equal(t, "10.1.0.0/16", rows[1].IPAddress)
}

func TestCollector_MalformedOutput(t *testing.T) {
	fake := commandtest.New().OnJSON("network nic list", `not json`)

	_, err := (&NICCollector{AZ: newAZ(fake)}).Collect(context.Background())
	require.Error(t, err)
	var malformed *command.MalformedOutputError
	assert.ErrorAs(t, err, &malformed)
}
